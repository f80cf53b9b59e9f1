package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"irgsh/internal/config"
	"irgsh/internal/preflight"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigCheckCommand(ctx))
	configCmd.AddCommand(newConfigSampleCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved client configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.configStore()
			dir, err := store.Dir()
			if err != nil {
				return err
			}
			settingsPath, err := store.SettingsPath()
			if err != nil {
				return err
			}
			address, err := ctx.chiefAddress()
			switch {
			case errors.Is(err, config.ErrNotConfigured):
				address = "(not configured; run irgsh-cli init --chief <URL>)"
			case err != nil:
				return err
			}
			settings := ctx.settingsValue()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory: %s\n", dir)
			fmt.Fprintf(out, "Chief address:    %s\n", address)
			fmt.Fprintf(out, "Settings file:    %s\n", settingsPath)
			fmt.Fprintf(out, "Transport:        %s\n", settings.Chief.Transport)
			fmt.Fprintf(out, "Request timeout:  %s\n", settings.Timeout())
			fmt.Fprintf(out, "Poll interval:    %s\n", settings.PollInterval())
			fmt.Fprintf(out, "Log level:        %s (%s)\n", settings.Logging.Level, settings.Logging.Format)
			fmt.Fprintf(out, "History enabled:  %s\n", yesNo(settings.History.Enabled))
			return nil
		},
	}
}

func newConfigCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the config directory and chief reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.configStore().Dir()
			if err != nil {
				return err
			}
			address, err := ctx.chiefAddress()
			if err != nil && !errors.Is(err, config.ErrNotConfigured) {
				return err
			}
			settings := ctx.settingsValue()

			results := preflight.RunAll(cmd.Context(), preflight.Target{
				StateDir:     dir,
				ChiefAddress: address,
				CheckRemote:  settings.Chief.Transport == config.TransportHTTP,
				HTTPClient:   ctx.httpClient,
			})
			if address == "" && settings.Chief.Transport != config.TransportHTTP {
				results = append(results, preflight.Result{Name: "Chief address", Detail: "not configured"})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Client", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if !preflight.AllPassed(results) {
				return errors.New("configuration check failed")
			}
			return nil
		},
	}
}

func newConfigSampleCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "sample",
		Short:       "Write settings.toml populated with defaults",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.configStore()
			target, err := store.SettingsPath()
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("settings file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check settings path: %w", err)
				}
			}
			path, err := store.SaveSettings(config.Default())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default settings to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing settings if present")
	return cmd
}
