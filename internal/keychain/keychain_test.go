package keychain_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zebra/internal/bip39"
	"zebra/internal/crypto"
	"zebra/internal/keychain"
)

const testDifficulty = 16

func mustPass(t *testing.T, pass string) *keychain.KeyChain {
	t.Helper()
	k, err := keychain.FromPass([]byte(pass), testDifficulty, keychain.WithWorkers(2))
	require.NoError(t, err)
	return k
}

func TestFromPassDeterministic(t *testing.T) {
	a := mustPass(t, "correct horse")
	b := mustPass(t, "correct horse")
	c := mustPass(t, "correct horsf")

	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, a.Address(), b.Address())
	assert.NotEqual(t, a.Bytes(), c.Bytes())
	assert.Len(t, a.Bytes(), keychain.Size)
	assert.Equal(t, 2, a.Workers())

	d, err := keychain.FromPass([]byte("correct horse"), testDifficulty+1)
	require.NoError(t, err)
	assert.NotEqual(t, a.Bytes(), d.Bytes())
}

func TestFromPassRejectsZeroDifficulty(t *testing.T) {
	_, err := keychain.FromPass([]byte("x"), 0)
	assert.ErrorIs(t, err, keychain.ErrBadDifficulty)
}

func TestFromMnemonicDeterministic(t *testing.T) {
	m, err := bip39.FromEntropy(bip39.English, bytes.Repeat([]byte{0x11}, 16))
	require.NoError(t, err)

	a, err := keychain.FromMnemonic(m, "")
	require.NoError(t, err)
	b, err := keychain.FromMnemonic(m, "")
	require.NoError(t, err)
	c, err := keychain.FromMnemonic(m, "extra")
	require.NoError(t, err)

	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.NotEqual(t, a.Address(), c.Address())
}

func TestFromBytesRoundTrip(t *testing.T) {
	k := mustPass(t, "pw")
	imported, err := keychain.FromBytes(k.Bytes())
	require.NoError(t, err)
	assert.Equal(t, k.Bytes(), imported.Bytes())
	assert.Equal(t, k.Address(), imported.Address())
	assert.Equal(t, k.PublicKey(), imported.PublicKey())

	_, err = keychain.FromBytes(k.Bytes()[1:])
	assert.ErrorIs(t, err, keychain.ErrSliceLength)
}

func TestEncryptDecryptAllOrders(t *testing.T) {
	k := mustPass(t, "orders")
	orders := []keychain.CipherOrder{
		{keychain.AES256},
		{keychain.PostQuantum1277},
		{keychain.PostQuantum1277, keychain.AES256},
		{keychain.AES256, keychain.PostQuantum1277},
		{keychain.AES256, keychain.AES256},
	}
	for _, order := range orders {
		for _, n := range []int{0, 1, 15, 16, 17, 4096, 10*1024 + 3} {
			plain := bytes.Repeat([]byte{byte(n)}, n)
			ct, err := k.Encrypt(plain, order)
			require.NoError(t, err, "order=%s n=%d", order, n)
			assert.Equal(t, strings.ToLower(ct), ct)

			got, err := k.Decrypt(ct, order)
			require.NoError(t, err, "order=%s n=%d", order, n)
			assert.Equal(t, len(plain), len(got))
			assert.True(t, bytes.Equal(plain, got), "order=%s n=%d", order, n)
		}
	}
}

func TestSingleWorkerMultiFrame(t *testing.T) {
	k, err := keychain.FromPass([]byte("serial"), testDifficulty, keychain.WithWorkers(1))
	require.NoError(t, err)
	wide := mustPass(t, "serial")

	for _, order := range []keychain.CipherOrder{{keychain.PostQuantum1277}, keychain.DefaultOrder()} {
		for _, n := range []int{2*crypto.PQChunkSize + 1, 3*crypto.PQChunkSize + 10} {
			plain := bytes.Repeat([]byte{0xa5, 0x5a}, n/2+1)[:n]
			ct, err := k.Encrypt(plain, order)
			require.NoError(t, err, "order=%s n=%d", order, n)

			got, err := k.Decrypt(ct, order)
			require.NoError(t, err, "order=%s n=%d", order, n)
			assert.True(t, bytes.Equal(plain, got), "order=%s n=%d", order, n)

			// A single worker reads what a pool wrote, and the reverse.
			got, err = wide.Decrypt(ct, order)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(plain, got))
			ct, err = wide.Encrypt(plain, order)
			require.NoError(t, err)
			got, err = k.Decrypt(ct, order)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(plain, got))
		}
	}
}

func TestDecryptDroppedFrame(t *testing.T) {
	k := mustPass(t, "frames")
	order := keychain.CipherOrder{keychain.PostQuantum1277}
	ct, err := k.Encrypt(bytes.Repeat([]byte("x"), 2*crypto.PQChunkSize), order)
	require.NoError(t, err)

	got, err := k.Decrypt(ct[:len(ct)/2], order)
	assert.ErrorIs(t, err, keychain.ErrDecrypt)
	assert.ErrorIs(t, err, crypto.ErrPQDecrypt)
	assert.Nil(t, got)
}

func TestImportedKeyChainDecrypts(t *testing.T) {
	k := mustPass(t, "import")
	ct, err := k.Encrypt([]byte("payload"), keychain.DefaultOrder())
	require.NoError(t, err)

	imported, err := keychain.FromBytes(k.Bytes(), keychain.WithWorkers(1))
	require.NoError(t, err)
	got, err := imported.Decrypt(ct, keychain.DefaultOrder())
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestDecryptErrors(t *testing.T) {
	k := mustPass(t, "right")
	ct, err := k.Encrypt([]byte("secret"), keychain.DefaultOrder())
	require.NoError(t, err)

	t.Run("wrong keychain", func(t *testing.T) {
		other := mustPass(t, "wrong")
		_, err := other.Decrypt(ct, keychain.DefaultOrder())
		assert.Error(t, err)
	})

	t.Run("invalid hex", func(t *testing.T) {
		_, err := k.Decrypt("zz", keychain.DefaultOrder())
		assert.ErrorIs(t, err, keychain.ErrInvalidHex)
	})

	t.Run("bad length", func(t *testing.T) {
		_, err := k.Decrypt("abcd", keychain.CipherOrder{keychain.AES256})
		assert.ErrorIs(t, err, keychain.ErrSliceLength)
	})

	t.Run("swapped order", func(t *testing.T) {
		_, err := k.Decrypt(ct, keychain.CipherOrder{keychain.AES256, keychain.PostQuantum1277})
		assert.Error(t, err)
	})

	t.Run("empty order", func(t *testing.T) {
		_, err := k.Decrypt(ct, nil)
		assert.ErrorIs(t, err, keychain.ErrUnknownCipher)
		_, err = k.Encrypt([]byte("x"), keychain.CipherOrder{})
		assert.ErrorIs(t, err, keychain.ErrUnknownCipher)
	})
}

func TestWipe(t *testing.T) {
	k := mustPass(t, "wipe")
	k.Wipe()
	_, err := k.Encrypt([]byte("x"), keychain.DefaultOrder())
	assert.ErrorIs(t, err, keychain.ErrWiped)
	_, err = k.Decrypt("00", keychain.DefaultOrder())
	assert.ErrorIs(t, err, keychain.ErrWiped)
	k.Wipe()
}

func TestCipherOrderText(t *testing.T) {
	b, err := json.Marshal(keychain.DefaultOrder())
	require.NoError(t, err)
	assert.JSONEq(t, `["PostQuantum1277","AES256"]`, string(b))

	var back keychain.CipherOrder
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, keychain.DefaultOrder(), back)

	err = json.Unmarshal([]byte(`["Rot13"]`), &back)
	assert.ErrorIs(t, err, keychain.ErrUnknownCipher)

	parsed, err := keychain.ParseCipherOrder("aes256, postquantum1277")
	require.NoError(t, err)
	assert.Equal(t, keychain.CipherOrder{keychain.AES256, keychain.PostQuantum1277}, parsed)
	assert.Equal(t, "AES256,PostQuantum1277", parsed.String())

	_, err = keychain.ParseCipherOrder("")
	assert.ErrorIs(t, err, keychain.ErrUnknownCipher)
}
