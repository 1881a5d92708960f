// Package vault runs the unlock state machine of a zebra vault.
//
// A vault moves from uninitialized to initialized+locked (Init persists the
// wrapped keys and data, Lock drops them) and from locked to unlocked
// (Unlock with the password, or Recover with the mnemonic). While unlocked the
// decrypted data set and the mnemonic keychain live in memory; every mutation
// re-encrypts the whole data set and persists the state record.
//
// The password keychain only wraps the mnemonic keychain bytes
// (secure_key_store). The mnemonic keychain encrypts the data set
// (secure_data_store) and its address identifies the vault.
//
// Service is not safe for concurrent use; callers serialize access.
package vault
