// Package logging assembles structured slog loggers for the irgsh client.
//
// It owns the console and JSON handlers, level parsing, and the no-op logger
// used by tests. Diagnostic logs go to stderr so that command output on stdout
// stays machine-readable.
package logging
