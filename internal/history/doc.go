// Package history keeps a local SQLite record of submitted builds so users
// can look up pipeline IDs after the terminal scrollback is gone.
package history
