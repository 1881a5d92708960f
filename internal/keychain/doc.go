// Package keychain derives zebra key material and runs the layered cipher
// pipeline over it.
//
// A KeyChain is built from a password (PBKDF2-HMAC-SHA512 with a caller
// supplied round count) or from a BIP-39 mnemonic seed. The first 8 seed bytes
// drive the post-quantum key generation, the next 32 are the AES key, so equal
// inputs always give byte-identical keychains.
//
// Encrypt applies a CipherOrder front to back and hex encodes the result;
// Decrypt undoes it back to front.
package keychain
