package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

const addressTag = "zebra-address-v1"

// Address returns the public identifier of a keychain: lowercase hex of
// SHA-256 over a version tag and the public key.
func Address(pub []byte) string {
	h := sha256.New()
	h.Write([]byte(addressTag))
	h.Write(pub)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a short hex digest of b for display: SHA-256
// truncated to 10 bytes (20 hex chars). The CLI applies it to the address
// string.
func Fingerprint(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:10])
}
