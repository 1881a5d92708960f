package crypto

import (
	"crypto/aes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	AESKeySize     = 32
	aesTrailerSize = 8
)

var (
	ErrAESKeySize     = errors.New("aes key must be 32 bytes")
	ErrAESSliceLength = errors.New("aes ciphertext length is not 16k+8")
	ErrAESPadding     = errors.New("aes padding trailer out of range")
)

// AESEncrypt encrypts plain block by block under a 32-byte key.
//
// The last partial block is zero padded and the number of pad bytes is
// appended as an 8-byte big-endian trailer. An exact multiple of the block
// size (including empty input) gets trailer 0.
func AESEncrypt(key, plain []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, ErrAESKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes init: %w", err)
	}

	pad := (aes.BlockSize - len(plain)%aes.BlockSize) % aes.BlockSize
	body := len(plain) + pad
	out := make([]byte, body+aesTrailerSize)
	copy(out, plain)
	for off := 0; off < body; off += aes.BlockSize {
		block.Encrypt(out[off:off+aes.BlockSize], out[off:off+aes.BlockSize])
	}
	binary.BigEndian.PutUint64(out[body:], uint64(pad))
	return out, nil
}

// AESDecrypt reverses AESEncrypt.
func AESDecrypt(key, ct []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, ErrAESKeySize
	}
	if len(ct) < aesTrailerSize || (len(ct)-aesTrailerSize)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrAESSliceLength, len(ct))
	}
	body := len(ct) - aesTrailerSize
	pad := binary.BigEndian.Uint64(ct[body:])
	if pad >= aes.BlockSize || pad > uint64(body) {
		return nil, fmt.Errorf("%w: %d", ErrAESPadding, pad)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes init: %w", err)
	}
	out := make([]byte, body)
	for off := 0; off < body; off += aes.BlockSize {
		block.Decrypt(out[off:off+aes.BlockSize], ct[off:off+aes.BlockSize])
	}
	return out[:body-int(pad)], nil
}
