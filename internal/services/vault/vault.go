package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"zebra/internal/bip39"
	"zebra/internal/domain"
	"zebra/internal/keychain"
	"zebra/internal/logging"
	"zebra/internal/state"
	"zebra/internal/util/memzero"
)

// Service owns the state record and the current session.
type Service struct {
	store   domain.Storage
	state   *state.State
	sess    session
	now     func() time.Time
	keyOpts []keychain.Option
	log     *logrus.Entry
}

// Option configures a Service.
type Option func(*Service)

// WithLogger routes vault logs to l.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) { s.log = logging.For(l, "vault", "guard") }
}

// WithClock replaces time.Now for element timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithKeyChainOptions is passed to every keychain the service builds.
func WithKeyChainOptions(opts ...keychain.Option) Option {
	return func(s *Service) { s.keyOpts = append(s.keyOpts, opts...) }
}

// New returns a locked service over st. Call Sync before anything else.
func New(st domain.Storage, opts ...Option) *Service {
	s := &Service{
		store: st,
		state: state.New(),
		sess:  locked{},
		now:   time.Now,
		log:   logging.For(nil, "vault", "guard"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Sync loads the state record from storage.
func (s *Service) Sync() error {
	return s.state.Sync(s.store)
}

// Inited reports whether a vault exists in storage.
func (s *Service) Inited() bool { return s.state.Inited }

// Unlocked reports whether keys and data are resident.
func (s *Service) Unlocked() bool {
	_, ok := s.sess.(*unlocked)
	return ok
}

// State returns a copy of the state record.
func (s *Service) State() state.State { return *s.state }

func (s *Service) ready() error {
	if !s.state.Ready {
		return state.ErrStateNotRead
	}
	return nil
}

func (s *Service) readyInited() error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.state.Inited {
		return state.ErrStateNotInited
	}
	return nil
}

func (s *Service) current() (*unlocked, error) {
	u, ok := s.sess.(*unlocked)
	if !ok {
		return nil, ErrGuardNotUnlocked
	}
	return u, nil
}

// InitParams are the inputs of a new vault. Cipher, when set, replaces the
// default cipher settings before any key is derived.
type InitParams struct {
	Password           []byte
	Mnemonic           *bip39.Mnemonic
	MnemonicPassphrase string
	Email              string
	ServerSync         bool
	Data               domain.DataSet
	Cipher             *state.CipherSettings
}

// Init creates the vault, persists it and leaves it unlocked.
func (s *Service) Init(p InitParams) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.state.Inited {
		return ErrAlreadyInited
	}
	if len(p.Password) == 0 {
		return ErrPasswordRequired
	}
	if p.Mnemonic == nil {
		return ErrMnemonicRequired
	}
	data := p.Data.Clone()
	if err := data.Validate(); err != nil {
		return err
	}

	settings := s.state.Settings
	if p.Cipher != nil {
		settings.Cipher = *p.Cipher
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	orders := settings.Cipher.Orders

	passKeys, err := keychain.FromPass(p.Password, settings.Cipher.Difficulty, s.keyOpts...)
	if err != nil {
		return err
	}
	defer passKeys.Wipe()
	keys, err := keychain.FromMnemonic(p.Mnemonic, p.MnemonicPassphrase, s.keyOpts...)
	if err != nil {
		return err
	}

	raw := keys.Bytes()
	keyStore, err := passKeys.Encrypt(raw, orders)
	memzero.Zero(raw)
	if err != nil {
		keys.Wipe()
		return err
	}
	dataStore, err := encryptData(keys, data, orders)
	if err != nil {
		keys.Wipe()
		return err
	}

	next := *s.state
	next.Settings = settings
	next.Email = p.Email
	next.ServerSync = p.ServerSync
	next.SecureKeyStore = keyStore
	next.SecureDataStore = dataStore
	next.Address = keys.Address()
	next.Inited = true
	next.Restorable = true
	if err := next.Update(s.store); err != nil {
		keys.Wipe()
		return err
	}
	*s.state = next

	s.Lock()
	s.sess = &unlocked{keys: keys, data: data}
	s.log.WithFields(logrus.Fields{
		"address":  next.Address,
		"elements": len(data),
		"ciphers":  orders.String(),
	}).Info("vault initialized")
	return nil
}

// Unlock opens the vault with password.
func (s *Service) Unlock(password []byte) error {
	if err := s.readyInited(); err != nil {
		return err
	}
	keys, err := s.unwrapKeys(password)
	if err != nil {
		s.log.Warn("unlock rejected")
		return err
	}
	data, err := decryptData(keys, s.state.SecureDataStore, s.state.Settings.Cipher.Orders)
	if err != nil {
		keys.Wipe()
		return err
	}

	s.Lock()
	s.sess = &unlocked{keys: keys, data: data}
	s.log.WithFields(logrus.Fields{
		"address":  s.state.Address,
		"elements": len(data),
	}).Info("vault unlocked")
	return nil
}

// unwrapKeys derives the password keychain and opens secure_key_store with
// it. The result must match the stored address.
func (s *Service) unwrapKeys(password []byte) (*keychain.KeyChain, error) {
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}
	cipher := s.state.Settings.Cipher
	passKeys, err := keychain.FromPass(password, cipher.Difficulty, s.keyOpts...)
	if err != nil {
		return nil, err
	}
	defer passKeys.Wipe()

	raw, err := passKeys.Decrypt(s.state.SecureKeyStore, cipher.Orders)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuardInvalidPassword, err)
	}
	defer memzero.Zero(raw)
	keys, err := keychain.FromBytes(raw, s.keyOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuardInvalidPassword, err)
	}
	if keys.Address() != s.state.Address {
		keys.Wipe()
		return nil, ErrGuardInvalidPassword
	}
	return keys, nil
}

func encryptData(keys *keychain.KeyChain, data domain.DataSet, orders keychain.CipherOrder) (string, error) {
	if data == nil {
		data = domain.DataSet{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode data: %w", err)
	}
	defer memzero.Zero(raw)
	return keys.Encrypt(raw, orders)
}

func decryptData(keys *keychain.KeyChain, ct string, orders keychain.CipherOrder) (domain.DataSet, error) {
	raw, err := keys.Decrypt(ct, orders)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuardInvalidPassword, err)
	}
	defer memzero.Zero(raw)
	var data domain.DataSet
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuardBrokenData, err)
	}
	if data == nil {
		data = domain.DataSet{}
	}
	return data, nil
}

// Lock wipes and drops the resident keys and data.
func (s *Service) Lock() {
	if u, ok := s.sess.(*unlocked); ok {
		u.wipe()
		s.log.Debug("vault locked")
	}
	s.sess = locked{}
}

// Data returns a copy of the decrypted data set.
func (s *Service) Data() (domain.DataSet, error) {
	u, err := s.current()
	if err != nil {
		return nil, err
	}
	return u.data.Clone(), nil
}

// commit encrypts data, persists it and only then swaps it in.
func (s *Service) commit(u *unlocked, data domain.DataSet) error {
	ct, err := encryptData(u.keys, data, s.state.Settings.Cipher.Orders)
	if err != nil {
		return err
	}
	prev := s.state.SecureDataStore
	s.state.SecureDataStore = ct
	if err := s.state.Update(s.store); err != nil {
		s.state.SecureDataStore = prev
		return err
	}
	u.data = data
	return nil
}

// Add stores e. A missing id or timestamp is filled in. The stored element
// is returned.
func (s *Service) Add(e domain.Element) (domain.Element, error) {
	u, err := s.current()
	if err != nil {
		return domain.Element{}, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := s.now().UTC().Truncate(time.Second)
	if e.Created.IsZero() {
		e.Created = now
	}
	if e.Updated.IsZero() {
		e.Updated = e.Created
	}
	if e.Kind == "" {
		e.Kind = domain.KindLogin
	}
	if err := e.Validate(); err != nil {
		return domain.Element{}, err
	}
	if u.data.Index(e.ID) >= 0 {
		return domain.Element{}, fmt.Errorf("%w: %s", domain.ErrDuplicateID, e.ID)
	}

	next := append(u.data.Clone(), e)
	if err := s.commit(u, next); err != nil {
		return domain.Element{}, err
	}
	s.log.WithField("elements", len(next)).Debug("element added")
	return e, nil
}

// Remove deletes the element with id.
func (s *Service) Remove(id uuid.UUID) error {
	u, err := s.current()
	if err != nil {
		return err
	}
	i := u.data.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	next := u.data.Clone()
	next = append(next[:i], next[i+1:]...)
	if err := s.commit(u, next); err != nil {
		return err
	}
	s.log.WithField("elements", len(next)).Debug("element removed")
	return nil
}

// Replace overwrites the element with the same id and bumps Updated.
func (s *Service) Replace(e domain.Element) error {
	u, err := s.current()
	if err != nil {
		return err
	}
	i := u.data.Index(e.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, e.ID)
	}
	e.Created = u.data[i].Created
	e.Updated = s.now().UTC().Truncate(time.Second)
	if err := e.Validate(); err != nil {
		return err
	}
	next := u.data.Clone()
	next[i] = e
	return s.commit(u, next)
}

// ChangePassword re-wraps the mnemonic keychain under newPassword. The
// session, if unlocked, stays unlocked.
func (s *Service) ChangePassword(oldPassword, newPassword []byte) error {
	if err := s.readyInited(); err != nil {
		return err
	}
	if len(newPassword) == 0 {
		return ErrPasswordRequired
	}
	keys, err := s.unwrapKeys(oldPassword)
	if err != nil {
		return err
	}
	defer keys.Wipe()
	if err := s.rewrap(keys, newPassword); err != nil {
		return err
	}
	s.log.WithField("address", s.state.Address).Info("password changed")
	return nil
}

func (s *Service) rewrap(keys *keychain.KeyChain, password []byte) error {
	cipher := s.state.Settings.Cipher
	passKeys, err := keychain.FromPass(password, cipher.Difficulty, s.keyOpts...)
	if err != nil {
		return err
	}
	defer passKeys.Wipe()

	raw := keys.Bytes()
	defer memzero.Zero(raw)
	keyStore, err := passKeys.Encrypt(raw, cipher.Orders)
	if err != nil {
		return err
	}
	prev := s.state.SecureKeyStore
	s.state.SecureKeyStore = keyStore
	if err := s.state.Update(s.store); err != nil {
		s.state.SecureKeyStore = prev
		return err
	}
	return nil
}

// Recover restores access with the mnemonic, sets newPassword and leaves the
// vault unlocked.
func (s *Service) Recover(m *bip39.Mnemonic, passphrase string, newPassword []byte) error {
	if err := s.readyInited(); err != nil {
		return err
	}
	if !s.state.Restorable {
		return ErrNotRestorable
	}
	if m == nil {
		return ErrMnemonicRequired
	}
	if len(newPassword) == 0 {
		return ErrPasswordRequired
	}

	keys, err := keychain.FromMnemonic(m, passphrase, s.keyOpts...)
	if err != nil {
		return err
	}
	if keys.Address() != s.state.Address {
		keys.Wipe()
		return ErrGuardInvalidMnemonic
	}
	data, err := decryptData(keys, s.state.SecureDataStore, s.state.Settings.Cipher.Orders)
	if err != nil {
		keys.Wipe()
		if errors.Is(err, ErrGuardInvalidPassword) {
			return fmt.Errorf("%w: %v", ErrGuardBrokenData, err)
		}
		return err
	}
	if err := s.rewrap(keys, newPassword); err != nil {
		keys.Wipe()
		return err
	}

	s.Lock()
	s.sess = &unlocked{keys: keys, data: data}
	s.log.WithField("address", s.state.Address).Info("vault recovered")
	return nil
}

// Address returns the vault address.
func (s *Service) Address() (string, error) {
	if err := s.readyInited(); err != nil {
		return "", err
	}
	return s.state.Address, nil
}

// Settings returns the current settings.
func (s *Service) Settings() state.Settings { return s.state.Settings }

// UpdateSettings changes the display preferences and persists them.
func (s *Service) UpdateSettings(appearance state.Appearance, locale string) error {
	if err := s.ready(); err != nil {
		return err
	}
	next := s.state.Settings
	next.Appearance = appearance
	next.Locale = strings.TrimSpace(locale)
	if err := next.Validate(); err != nil {
		return err
	}
	prev := s.state.Settings
	s.state.Settings = next
	if err := s.state.Update(s.store); err != nil {
		s.state.Settings = prev
		return err
	}
	return nil
}

// Reset erases the vault from storage. The session is locked first.
func (s *Service) Reset() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.Lock()
	if err := s.state.Erase(s.store); err != nil {
		return err
	}
	s.log.Warn("vault erased")
	return nil
}
