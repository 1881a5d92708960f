// Package commands defines the zebra CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init               Create a vault from a password and a new or given mnemonic
//   - unlock             Check the password and print vault status
//   - list               Unlock and list stored elements
//   - add                Unlock and store a new element
//   - remove             Unlock and delete an element by id
//   - passwd             Change the vault password
//   - recover            Restore access with the mnemonic and set a new password
//   - address            Print the vault address
//   - settings           Show or change display preferences
//   - reset              Erase the vault from local storage
//   - mnemonic generate  Print a fresh mnemonic
//   - mnemonic validate  Check a mnemonic phrase
//   - config show|save   Print or write the YAML configuration
//
// # Implementation
//
// The root command loads the configuration before any subcommand runs.
// Commands that touch the vault open storage through openWire; the root
// closes it afterwards. Every invocation is its own session: commands that
// need the data unlock, act and lock again.
package commands
