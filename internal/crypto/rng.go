package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/chacha20"

	"zebra/internal/util/memzero"
)

const seededReaderTag = "zebra-keychain-rng-v1"

type seededReader struct {
	stream *chacha20.Cipher
}

// NewSeededReader returns a deterministic byte stream derived from seed.
//
// The stream is the ChaCha20 keystream under SHA-256(tag || seed) with a zero
// nonce. Equal seeds always yield equal streams, which is what makes key
// generation reproducible from a password or mnemonic.
func NewSeededReader(seed [8]byte) io.Reader {
	h := sha256.New()
	h.Write([]byte(seededReaderTag))
	h.Write(seed[:])
	key := h.Sum(nil)
	defer memzero.Zero(key)

	var nonce [chacha20.NonceSize]byte
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce[:])
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(err)
	}
	return &seededReader{stream: stream}
}

func (r *seededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}
