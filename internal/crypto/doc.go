// Package crypto exposes the primitives used by the zebra keychain.
//
// Contents
//
//   - AES-256 block layer with zero padding and an 8-byte pad-length trailer
//     (AESEncrypt, AESDecrypt)
//   - Post-quantum layer: Streamlined NTRU Prime 4591^761 KEM with a
//     ChaCha20-Poly1305 DEM over 4 KiB frames, processed by a bounded worker
//     pool (GeneratePQKey, PQEncrypt, PQDecrypt)
//   - Deterministic ChaCha20 byte stream for reproducible key generation
//     (NewSeededReader)
//   - Public identifiers for display and lookup (Address, Fingerprint)
//
// # Notes
//
// The AES layer is unauthenticated. Integrity of layered ciphertext comes from
// the AEAD inside the post-quantum layer, or from the caller failing to decode
// the plaintext.
package crypto
