package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Chief transports understood by the client.
const (
	TransportPlaceholder = "placeholder"
	TransportHTTP        = "http"
)

// Chief controls how the client talks to the chief service.
type Chief struct {
	Transport           string `toml:"transport"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
}

// Logging contains configuration for diagnostic log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// History toggles the local submission history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Settings holds the optional knobs read from settings.toml.
type Settings struct {
	Chief   Chief   `toml:"chief"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`
}

// Timeout returns the per-request timeout for remote chief calls.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.Chief.TimeoutSeconds) * time.Second
}

// PollInterval returns the delay between status polls while watching.
func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.Chief.PollIntervalSeconds) * time.Second
}

func (s *Settings) normalize() {
	s.Chief.Transport = strings.ToLower(strings.TrimSpace(s.Chief.Transport))
	if s.Chief.Transport == "" {
		s.Chief.Transport = defaultTransport
	}
	if s.Chief.TimeoutSeconds == 0 {
		s.Chief.TimeoutSeconds = defaultTimeout
	}
	if s.Chief.PollIntervalSeconds == 0 {
		s.Chief.PollIntervalSeconds = defaultPollSeconds
	}
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	if s.Logging.Level == "" {
		s.Logging.Level = defaultLogLevel
	}
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format == "" {
		s.Logging.Format = defaultLogFormat
	}
}

// Validate ensures the settings are usable.
func (s *Settings) Validate() error {
	switch s.Chief.Transport {
	case TransportPlaceholder, TransportHTTP:
	default:
		return fmt.Errorf("chief.transport: unsupported value %q (use %q or %q)", s.Chief.Transport, TransportPlaceholder, TransportHTTP)
	}
	if s.Chief.TimeoutSeconds < 0 {
		return errors.New("chief.timeout_seconds must be positive")
	}
	if s.Chief.PollIntervalSeconds < 0 {
		return errors.New("chief.poll_interval_seconds must be positive")
	}
	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", s.Logging.Level)
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", s.Logging.Format)
	}
	return nil
}
