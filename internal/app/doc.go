// Package app wires application dependencies for the CLI.
//
// It loads the YAML Config from the zebra home directory, then builds the
// logger, the local storage backend and the vault service from it, exposing
// them via the Wire struct for commands to use.
package app
