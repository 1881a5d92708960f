package vault_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zebra/internal/bip39"
	"zebra/internal/domain"
	"zebra/internal/keychain"
	"zebra/internal/services/vault"
	"zebra/internal/state"
	"zebra/internal/store"
)

var testCipher = state.CipherSettings{Difficulty: 32, Orders: keychain.DefaultOrder()}

func fixedClock() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

func openStore(t *testing.T, dir string) *store.LocalStorage {
	t.Helper()
	s, err := store.Open(store.Options{Dir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newService(t *testing.T, st domain.Storage) *vault.Service {
	t.Helper()
	svc := vault.New(st,
		vault.WithClock(fixedClock),
		vault.WithKeyChainOptions(keychain.WithWorkers(2)),
	)
	require.NoError(t, svc.Sync())
	return svc
}

func mnemonic(t *testing.T, fill byte) *bip39.Mnemonic {
	t.Helper()
	m, err := bip39.Generate(bytes.NewReader(bytes.Repeat([]byte{fill}, 32)), bip39.English, 15)
	require.NoError(t, err)
	return m
}

func sampleData() domain.DataSet {
	a := domain.NewElement(domain.KindLogin, "mail", fixedClock())
	a.Login = "me"
	a.Secret = "hunter2"
	b := domain.NewElement(domain.KindNote, "wifi", fixedClock())
	b.Notes = "guest network"
	return domain.DataSet{a, b}
}

func initVault(t *testing.T, svc *vault.Service, m *bip39.Mnemonic, data domain.DataSet) {
	t.Helper()
	require.NoError(t, svc.Init(vault.InitParams{
		Password: []byte("password"),
		Mnemonic: m,
		Data:     data,
		Cipher:   &testCipher,
	}))
}

func TestInitUnlockReload(t *testing.T) {
	dir := t.TempDir()
	st := openStore(t, dir)
	data := sampleData()

	svc := newService(t, st)
	initVault(t, svc, mnemonic(t, 7), data)
	assert.True(t, svc.Unlocked())
	assert.True(t, svc.Inited())
	got, err := svc.Data()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	s := svc.State()
	assert.True(t, s.Restorable)
	assert.False(t, s.ServerSync)
	assert.Empty(t, s.Email)
	assert.Len(t, s.Address, 64)

	// Fresh process over the same storage.
	fresh := newService(t, st)
	assert.True(t, fresh.Inited())
	assert.False(t, fresh.Unlocked())
	require.NoError(t, fresh.Unlock([]byte("password")))
	got, err = fresh.Data()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	other := newService(t, st)
	assert.ErrorIs(t, other.Unlock([]byte("wrong")), vault.ErrGuardInvalidPassword)
	assert.False(t, other.Unlocked())
}

func TestAddPersistsAcrossReload(t *testing.T) {
	st := openStore(t, t.TempDir())
	svc := newService(t, st)
	initVault(t, svc, mnemonic(t, 1), sampleData())

	added, err := svc.Add(domain.Element{Title: "bank", Secret: "1234"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.Equal(t, domain.KindLogin, added.Kind)
	assert.Equal(t, fixedClock(), added.Created)

	fresh := newService(t, st)
	require.NoError(t, fresh.Unlock([]byte("password")))
	got, err := fresh.Data()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, added, got[2])
}

func TestLockedOperations(t *testing.T) {
	st := openStore(t, t.TempDir())
	svc := newService(t, st)
	initVault(t, svc, mnemonic(t, 2), nil)

	svc.Lock()
	assert.False(t, svc.Unlocked())
	_, err := svc.Data()
	assert.ErrorIs(t, err, vault.ErrGuardNotUnlocked)
	_, err = svc.Add(domain.Element{Title: "x"})
	assert.ErrorIs(t, err, vault.ErrGuardNotUnlocked)
	assert.ErrorIs(t, svc.Remove(uuid.New()), vault.ErrGuardNotUnlocked)
	assert.ErrorIs(t, svc.Replace(domain.Element{ID: uuid.New(), Title: "x"}), vault.ErrGuardNotUnlocked)

	require.NoError(t, svc.Unlock([]byte("password")))
	got, err := svc.Data()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestPreconditions(t *testing.T) {
	st := openStore(t, t.TempDir())

	unsynced := vault.New(st)
	assert.ErrorIs(t, unsynced.Unlock([]byte("password")), state.ErrStateNotRead)
	assert.ErrorIs(t, unsynced.Init(vault.InitParams{}), state.ErrStateNotRead)

	svc := newService(t, st)
	assert.ErrorIs(t, svc.Unlock([]byte("password")), state.ErrStateNotInited)
	_, err := svc.Address()
	assert.ErrorIs(t, err, state.ErrStateNotInited)

	m := mnemonic(t, 3)
	assert.ErrorIs(t, svc.Init(vault.InitParams{Mnemonic: m}), vault.ErrPasswordRequired)
	assert.ErrorIs(t, svc.Init(vault.InitParams{Password: []byte("p")}), vault.ErrMnemonicRequired)

	initVault(t, svc, m, nil)
	err = svc.Init(vault.InitParams{Password: []byte("p"), Mnemonic: m})
	assert.ErrorIs(t, err, vault.ErrAlreadyInited)
}

func TestRemoveAndReplace(t *testing.T) {
	st := openStore(t, t.TempDir())
	svc := newService(t, st)
	data := sampleData()
	initVault(t, svc, mnemonic(t, 4), data)

	edited := data[0]
	edited.Secret = "correct horse"
	edited.Created = time.Time{}
	require.NoError(t, svc.Replace(edited))

	require.NoError(t, svc.Remove(data[1].ID))
	assert.ErrorIs(t, svc.Remove(data[1].ID), vault.ErrElementNotFound)
	assert.ErrorIs(t, svc.Replace(data[1]), vault.ErrElementNotFound)

	_, err := svc.Add(data[0])
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	fresh := newService(t, st)
	require.NoError(t, fresh.Unlock([]byte("password")))
	got, err := fresh.Data()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "correct horse", got[0].Secret)
	assert.Equal(t, data[0].Created, got[0].Created)
}

func TestChangePassword(t *testing.T) {
	st := openStore(t, t.TempDir())
	svc := newService(t, st)
	initVault(t, svc, mnemonic(t, 5), sampleData())

	assert.ErrorIs(t, svc.ChangePassword([]byte("nope"), []byte("new")), vault.ErrGuardInvalidPassword)
	assert.ErrorIs(t, svc.ChangePassword([]byte("password"), nil), vault.ErrPasswordRequired)
	require.NoError(t, svc.ChangePassword([]byte("password"), []byte("n3w-Password!")))
	assert.True(t, svc.Unlocked())

	fresh := newService(t, st)
	assert.ErrorIs(t, fresh.Unlock([]byte("password")), vault.ErrGuardInvalidPassword)
	require.NoError(t, fresh.Unlock([]byte("n3w-Password!")))
}

func TestRecover(t *testing.T) {
	st := openStore(t, t.TempDir())
	svc := newService(t, st)
	m := mnemonic(t, 6)
	data := sampleData()
	initVault(t, svc, m, data)

	fresh := newService(t, st)
	err := fresh.Recover(mnemonic(t, 9), "", []byte("other"))
	assert.ErrorIs(t, err, vault.ErrGuardInvalidMnemonic)
	err = fresh.Recover(m, "wrong passphrase", []byte("other"))
	assert.ErrorIs(t, err, vault.ErrGuardInvalidMnemonic)

	require.NoError(t, fresh.Recover(m, "", []byte("other")))
	got, err := fresh.Data()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	again := newService(t, st)
	require.NoError(t, again.Unlock([]byte("other")))
}

func TestBrokenData(t *testing.T) {
	st := openStore(t, t.TempDir())
	svc := newService(t, st)
	m := mnemonic(t, 8)
	initVault(t, svc, m, nil)

	keys, err := keychain.FromMnemonic(m, "")
	require.NoError(t, err)
	ct, err := keys.Encrypt([]byte("{not json"), testCipher.Orders)
	require.NoError(t, err)

	s := state.New()
	require.NoError(t, s.Sync(st))
	s.SecureDataStore = ct
	require.NoError(t, s.Update(st))

	fresh := newService(t, st)
	assert.ErrorIs(t, fresh.Unlock([]byte("password")), vault.ErrGuardBrokenData)
}

func TestSettingsAndReset(t *testing.T) {
	st := openStore(t, t.TempDir())
	svc := newService(t, st)
	initVault(t, svc, mnemonic(t, 10), nil)
	assert.Equal(t, testCipher, svc.Settings().Cipher)

	require.NoError(t, svc.UpdateSettings(state.AppearanceDark, "de"))
	assert.ErrorIs(t, svc.UpdateSettings("neon", "de"), state.ErrBadAppearance)

	fresh := newService(t, st)
	assert.Equal(t, state.AppearanceDark, fresh.Settings().Appearance)
	assert.Equal(t, "de", fresh.Settings().Locale)

	require.NoError(t, fresh.Reset())
	assert.False(t, fresh.Inited())
	again := newService(t, st)
	assert.False(t, again.Inited())
}

func TestPasswordStrong(t *testing.T) {
	assert.True(t, vault.PasswordStrong("Tr0ub4dor&3xyz"))
	assert.False(t, vault.PasswordStrong("password"))
	assert.False(t, vault.PasswordStrong("alllowercase1!"))
	assert.False(t, vault.PasswordStrong("Sh0rt!"))
}
