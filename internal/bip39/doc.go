// Package bip39 converts between entropy and BIP-39 word phrases.
//
// Contents
//
//   - Entropy to phrase with SHA-256 checksum (FromEntropy, Generate)
//   - Phrase to entropy with word-count, word-list and checksum validation
//     (Parse, ToEntropy, Validate)
//   - Seed derivation: PBKDF2-HMAC-SHA512, 2048 iterations, NFKD-normalized
//     phrase and salt (Mnemonic.Seed)
//
// # Notes
//
// The word lists are the standard 2048-word BIP-39 lists. Seed derivation uses
// the salt prefix "zebra-bip39-mnemonic" instead of the standard "mnemonic",
// so seeds are not interchangeable with other BIP-39 wallets even though the
// phrases are.
package bip39
