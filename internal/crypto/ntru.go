package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/companyzero/sntrup4591761"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/sync/errgroup"

	"zebra/internal/util/memzero"
)

const (
	PQPublicKeySize  = sntrup4591761.PublicKeySize
	PQPrivateKeySize = sntrup4591761.PrivateKeySize

	// PQChunkSize is the plaintext carried by one frame.
	PQChunkSize = 4 << 10

	pqLenSize    = 4
	pqHeaderSize = sntrup4591761.CiphertextSize + pqLenSize
)

var (
	ErrPQSliceLength = errors.New("post-quantum ciphertext is truncated or malformed")
	ErrPQEncrypt     = errors.New("post-quantum encryption failed")
	ErrPQDecrypt     = errors.New("post-quantum decryption failed")
	ErrPQKeySize     = errors.New("post-quantum key has wrong size")
)

type (
	PQPublicKey  = sntrup4591761.PublicKey
	PQPrivateKey = sntrup4591761.PrivateKey
)

// GeneratePQKey derives an NTRU Prime key pair from rng. A deterministic rng
// gives a deterministic pair.
func GeneratePQKey(rng io.Reader) (*PQPublicKey, *PQPrivateKey, error) {
	pub, priv, err := sntrup4591761.GenerateKey(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("sntrup keygen: %w", err)
	}
	return pub, priv, nil
}

// PQPublicKeyFromBytes copies b into a public key.
func PQPublicKeyFromBytes(b []byte) (*PQPublicKey, error) {
	if len(b) != PQPublicKeySize {
		return nil, fmt.Errorf("%w: public %d", ErrPQKeySize, len(b))
	}
	var pk PQPublicKey
	copy(pk[:], b)
	return &pk, nil
}

// PQPrivateKeyFromBytes copies b into a private key.
func PQPrivateKeyFromBytes(b []byte) (*PQPrivateKey, error) {
	if len(b) != PQPrivateKeySize {
		return nil, fmt.Errorf("%w: private %d", ErrPQKeySize, len(b))
	}
	var sk PQPrivateKey
	copy(sk[:], b)
	return &sk, nil
}

func chunkCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + PQChunkSize - 1) / PQChunkSize
}

// frameAD binds a frame to its position and to the frame count, so frames
// cannot be reordered and whole trailing frames cannot be dropped.
func frameAD(i, n int) []byte {
	var ad [8]byte
	binary.BigEndian.PutUint32(ad[:4], uint32(i))
	binary.BigEndian.PutUint32(ad[4:], uint32(n))
	return ad[:]
}

// PQEncrypt seals plain to pub as a sequence of frames
//
//	[kem ciphertext][4-byte BE sealed length][sealed chunk]
//
// one per PQChunkSize bytes of input (at least one). Frames are produced by up
// to workers goroutines and concatenated in input order.
func PQEncrypt(pub *PQPublicKey, plain []byte, workers int) ([]byte, error) {
	n := chunkCount(len(plain))
	frames := make([][]byte, n)

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i := 0; i < n; i++ {
		start := i * PQChunkSize
		end := min(start+PQChunkSize, len(plain))
		chunk := plain[start:end]
		g.Go(func() error {
			frame, err := sealFrame(pub, chunk, i, n)
			if err != nil {
				return err
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	size := 0
	for _, f := range frames {
		size += len(f)
	}
	out := make([]byte, 0, size)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out, nil
}

func sealFrame(pub *PQPublicKey, chunk []byte, i, n int) ([]byte, error) {
	kct, shared, err := sntrup4591761.Encapsulate(rand.Reader, pub)
	if err != nil {
		return nil, fmt.Errorf("%w: encapsulate: %v", ErrPQEncrypt, err)
	}
	defer memzero.Zero(shared[:])

	aead, err := chacha20poly1305.New(shared[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPQEncrypt, err)
	}
	// Each frame has its own shared key, so a fixed nonce is never reused.
	var nonce [chacha20poly1305.NonceSize]byte

	sealedLen := len(chunk) + aead.Overhead()
	frame := make([]byte, pqHeaderSize, pqHeaderSize+sealedLen)
	copy(frame, kct[:])
	binary.BigEndian.PutUint32(frame[sntrup4591761.CiphertextSize:], uint32(sealedLen))
	return aead.Seal(frame, nonce[:], chunk, frameAD(i, n)), nil
}

// PQDecrypt opens frames produced by PQEncrypt.
func PQDecrypt(priv *PQPrivateKey, ct []byte, workers int) ([]byte, error) {
	var frames [][]byte
	for rest := ct; len(rest) > 0; {
		if len(rest) < pqHeaderSize {
			return nil, fmt.Errorf("%w: %d trailing bytes", ErrPQSliceLength, len(rest))
		}
		sealedLen := int(binary.BigEndian.Uint32(rest[sntrup4591761.CiphertextSize:pqHeaderSize]))
		if sealedLen < chacha20poly1305.Overhead || sealedLen > len(rest)-pqHeaderSize {
			return nil, fmt.Errorf("%w: frame length %d", ErrPQSliceLength, sealedLen)
		}
		frames = append(frames, rest[:pqHeaderSize+sealedLen])
		rest = rest[pqHeaderSize+sealedLen:]
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrPQSliceLength)
	}

	chunks := make([][]byte, len(frames))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, frame := range frames {
		g.Go(func() error {
			chunk, err := openFrame(priv, frame, i, len(frames))
			if err != nil {
				return err
			}
			chunks[i] = chunk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

func openFrame(priv *PQPrivateKey, frame []byte, i, n int) ([]byte, error) {
	var kct sntrup4591761.Ciphertext
	copy(kct[:], frame[:sntrup4591761.CiphertextSize])

	shared, ok := sntrup4591761.Decapsulate(&kct, priv)
	if ok != 1 {
		return nil, fmt.Errorf("%w: frame %d: decapsulate", ErrPQDecrypt, i)
	}
	defer memzero.Zero(shared[:])

	aead, err := chacha20poly1305.New(shared[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPQDecrypt, err)
	}
	var nonce [chacha20poly1305.NonceSize]byte
	plain, err := aead.Open(nil, nonce[:], frame[pqHeaderSize:], frameAD(i, n))
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %v", ErrPQDecrypt, i, err)
	}
	return plain, nil
}
