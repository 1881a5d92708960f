package bip39

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"

	"zebra/internal/util/memzero"
)

const (
	// SaltPrefix is prepended to the passphrase to form the PBKDF2 salt.
	SaltPrefix = "zebra-bip39-mnemonic"
	// SeedIterations is the PBKDF2 round count.
	SeedIterations = 2048
	SeedSize       = 64
)

// Seed derives the 64-byte seed for the phrase and an optional passphrase.
func (m *Mnemonic) Seed(passphrase string) [SeedSize]byte {
	password := []byte(norm.NFKD.String(m.Phrase()))
	salt := []byte(norm.NFKD.String(SaltPrefix + passphrase))

	key := pbkdf2.Key(password, salt, SeedIterations, SeedSize, sha512.New)
	var seed [SeedSize]byte
	copy(seed[:], key)

	memzero.Zero(key)
	memzero.Zero(password)
	return seed
}
