// Package main hosts the irgsh-cli entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the client state in
// ~/.irgsh and onto a chief.Client: init stores the chief address, submit,
// status, watch and log talk to the chief through the configured transport,
// and history reads the local submission log. Configuration resolution and
// logger setup live in commandContext so subcommands stay declarative.
package main
