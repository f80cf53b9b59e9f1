package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"irgsh/internal/chief"
	"irgsh/internal/config"
	"irgsh/internal/history"
	"irgsh/internal/logging"
)

const (
	annotationSkipConfig    = "skipConfigLoad"
	annotationRequiresChief = "requiresChief"
)

type commandContext struct {
	verbose    *bool
	home       config.HomeProvider
	httpClient chief.HTTPDoer

	storeOnce sync.Once
	store     *config.Store

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{verbose: verbose}
}

func (c *commandContext) configStore() *config.Store {
	c.storeOnce.Do(func() {
		c.store = config.NewStore(c.home)
	})
	return c.store
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		settings, _, err := c.configStore().LoadSettings()
		if err != nil {
			c.settingsErr = fmt.Errorf("load settings: %w", err)
			return
		}
		c.settings = settings
	})
	return c.settings, c.settingsErr
}

// settingsValue returns loaded settings, falling back to defaults when the
// settings file is unusable.
func (c *commandContext) settingsValue() *config.Settings {
	if settings, err := c.ensureSettings(); err == nil {
		return settings
	}
	defaults := config.Default()
	return &defaults
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		verbose := c.verbose != nil && *c.verbose
		logger, err := logging.NewFromSettings(c.settingsValue(), verbose, os.Stderr)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) chiefAddress() (string, error) {
	return c.configStore().LoadChiefAddress()
}

func (c *commandContext) chiefClient(address string) (chief.Client, error) {
	settings := c.settingsValue()
	return chief.New(settings.Chief.Transport, address, chief.Options{
		Timeout:      settings.Timeout(),
		PollInterval: settings.PollInterval(),
		HTTPClient:   c.httpClient,
		Logger:       c.loggerValue(),
	})
}

// withChief loads the chief address and client and hands both to fn.
func (c *commandContext) withChief(fn func(address string, client chief.Client) error) error {
	address, err := c.chiefAddress()
	if err != nil {
		return err
	}
	client, err := c.chiefClient(address)
	if err != nil {
		return err
	}
	return fn(address, client)
}

// withHistory opens the history store for the duration of fn. fn receives a
// nil store when history is disabled.
func (c *commandContext) withHistory(ctx context.Context, fn func(*history.Store) error) error {
	if !c.settingsValue().History.Enabled {
		return fn(nil)
	}
	path, err := c.configStore().HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) transport() string {
	return c.settingsValue().Chief.Transport
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[key] == "true" {
			return true
		}
	}
	return false
}

func requiresChief() map[string]string {
	return map[string]string{annotationRequiresChief: "true"}
}
