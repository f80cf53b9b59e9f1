// Package config owns the irgsh client's local state under ~/.irgsh.
//
// The chief address lives in a single plain-text file whose entire contents
// are the URL. Optional client settings (transport, logging, history) are read
// from settings.toml next to it. The home directory is resolved through a
// HomeProvider so tests can point the client at a temporary directory instead
// of the real user environment.
//
// Every command other than init must load the chief address through this
// package; a missing address surfaces as ErrNotConfigured.
package config
