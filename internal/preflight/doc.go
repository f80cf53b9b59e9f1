// Package preflight provides readiness checks for the client state directory
// and the configured chief.
//
// init runs CheckStateDir before writing so permission problems are reported
// with the offending path. "irgsh-cli config check" runs RunAll and renders
// every Result.
package preflight
