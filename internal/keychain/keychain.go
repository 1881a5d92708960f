package keychain

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/pbkdf2"

	"zebra/internal/bip39"
	"zebra/internal/crypto"
	"zebra/internal/util/memzero"
)

const (
	// PasswordSalt is the fixed PBKDF2 salt for password derived keychains.
	PasswordSalt = "zebra-keychain-salt"
	SeedSize     = 64

	AESKeySize = crypto.AESKeySize
	// Size is the length of the raw keychain: [aes][public][private].
	Size = AESKeySize + crypto.PQPublicKeySize + crypto.PQPrivateKeySize
)

var (
	ErrBadDifficulty = errors.New("difficulty must be at least 1")
	ErrSliceLength   = errors.New("keychain bytes have wrong length")
	ErrInvalidHex    = errors.New("ciphertext is not valid hex")
	ErrEncrypt       = errors.New("keychain encrypt failed")
	ErrDecrypt       = errors.New("keychain decrypt failed")
	ErrKeyGen        = errors.New("keychain key generation failed")
	ErrKeyImport     = errors.New("keychain import failed")
	ErrWiped         = errors.New("keychain has been wiped")
)

// KeyChain holds the symmetric key and post-quantum key pair derived from a
// password or mnemonic.
type KeyChain struct {
	aes     [AESKeySize]byte
	pub     *crypto.PQPublicKey
	priv    *crypto.PQPrivateKey
	workers int
	wiped   bool
}

// Option configures a KeyChain at construction.
type Option func(*KeyChain)

// WithWorkers caps post-quantum parallelism. Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(k *KeyChain) { k.workers = max(n, 1) }
}

func newKeyChain(opts []Option) *KeyChain {
	k := &KeyChain{workers: runtime.NumCPU()}
	for _, o := range opts {
		o(k)
	}
	return k
}

// FromPass derives a keychain from password using difficulty PBKDF2 rounds.
func FromPass(password []byte, difficulty uint32, opts ...Option) (*KeyChain, error) {
	if difficulty == 0 {
		return nil, ErrBadDifficulty
	}
	seed := pbkdf2.Key(password, []byte(PasswordSalt), int(difficulty), SeedSize, sha512.New)
	defer memzero.Zero(seed)
	return fromSeed(seed, opts)
}

// FromMnemonic derives a keychain from the mnemonic seed.
func FromMnemonic(m *bip39.Mnemonic, passphrase string, opts ...Option) (*KeyChain, error) {
	seed := m.Seed(passphrase)
	defer memzero.Zero(seed[:])
	return fromSeed(seed[:], opts)
}

func fromSeed(seed []byte, opts []Option) (*KeyChain, error) {
	k := newKeyChain(opts)

	var rngSeed [8]byte
	copy(rngSeed[:], seed[:8])
	pub, priv, err := crypto.GeneratePQKey(crypto.NewSeededReader(rngSeed))
	memzero.Zero(rngSeed[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGen, err)
	}
	k.pub, k.priv = pub, priv
	copy(k.aes[:], seed[8:8+AESKeySize])
	return k, nil
}

// FromBytes imports the raw layout produced by Bytes.
func FromBytes(b []byte, opts ...Option) (*KeyChain, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("%w: got %d want %d", ErrSliceLength, len(b), Size)
	}
	k := newKeyChain(opts)
	copy(k.aes[:], b[:AESKeySize])

	off := AESKeySize
	pub, err := crypto.PQPublicKeyFromBytes(b[off : off+crypto.PQPublicKeySize])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyImport, err)
	}
	off += crypto.PQPublicKeySize
	priv, err := crypto.PQPrivateKeyFromBytes(b[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyImport, err)
	}
	k.pub, k.priv = pub, priv
	return k, nil
}

// Bytes returns [aes:32][public][private]. The caller owns the copy and
// should wipe it.
func (k *KeyChain) Bytes() []byte {
	out := make([]byte, 0, Size)
	out = append(out, k.aes[:]...)
	out = append(out, k.pub[:]...)
	out = append(out, k.priv[:]...)
	return out
}

// PublicKey returns a copy of the post-quantum public key.
func (k *KeyChain) PublicKey() []byte {
	return append([]byte(nil), k.pub[:]...)
}

// Address is the public identifier of the keychain.
func (k *KeyChain) Address() string {
	return crypto.Address(k.pub[:])
}

// Workers reports the post-quantum parallelism.
func (k *KeyChain) Workers() int { return k.workers }

// Encrypt applies the ciphers in order and returns lowercase hex.
func (k *KeyChain) Encrypt(plain []byte, order CipherOrder) (string, error) {
	if k.wiped {
		return "", ErrWiped
	}
	if err := order.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncrypt, err)
	}
	buf := plain
	for _, c := range order {
		next, err := k.encryptLayer(c, buf)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrEncrypt, c, err)
		}
		buf = next
	}
	return hex.EncodeToString(buf), nil
}

// Decrypt hex-decodes ct and removes the layers in reverse order.
func (k *KeyChain) Decrypt(ct string, order CipherOrder) ([]byte, error) {
	if k.wiped {
		return nil, ErrWiped
	}
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	buf, err := hex.DecodeString(ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	for i := len(order) - 1; i >= 0; i-- {
		next, err := k.decryptLayer(order[i], buf)
		if err != nil {
			if errors.Is(err, crypto.ErrAESSliceLength) || errors.Is(err, crypto.ErrPQSliceLength) {
				return nil, fmt.Errorf("%w: %s: %w", ErrSliceLength, order[i], err)
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrDecrypt, order[i], err)
		}
		buf = next
	}
	return buf, nil
}

func (k *KeyChain) encryptLayer(c Cipher, in []byte) ([]byte, error) {
	switch c {
	case AES256:
		return crypto.AESEncrypt(k.aes[:], in)
	case PostQuantum1277:
		return crypto.PQEncrypt(k.pub, in, k.workers)
	}
	return nil, ErrUnknownCipher
}

func (k *KeyChain) decryptLayer(c Cipher, in []byte) ([]byte, error) {
	switch c {
	case AES256:
		return crypto.AESDecrypt(k.aes[:], in)
	case PostQuantum1277:
		return crypto.PQDecrypt(k.priv, in, k.workers)
	}
	return nil, ErrUnknownCipher
}

// Wipe zeroes the key material. The keychain is unusable afterwards.
func (k *KeyChain) Wipe() {
	if k == nil || k.wiped {
		return
	}
	memzero.Zero(k.aes[:])
	if k.priv != nil {
		memzero.Zero(k.priv[:])
	}
	k.wiped = true
}
