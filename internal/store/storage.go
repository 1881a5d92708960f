package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"zebra/internal/logging"
)

const (
	// FormatVersion is the record version written by this build.
	FormatVersion uint16 = 1

	appDir = "zebra"
)

// record is the on-disk wrapper around every payload.
type record struct {
	Payload    any    `json:"payload"`
	Version    uint16 `json:"version"`
	LastUpdate uint64 `json:"last_update"`
	Hashsum    string `json:"hashsum"`
}

// Options configures Open. Zero values pick the defaults.
type Options struct {
	Dir     string // default: os.UserConfigDir()/zebra
	Driver  string // bolt (default), sqlite or file
	Version uint16 // default: FormatVersion
	Codec   Codec  // default: JSON
	Now     func() time.Time
	Logger  *logrus.Logger
}

// LocalStorage is a versioned, hash-verified key-value store.
type LocalStorage struct {
	mu      sync.Mutex
	backend Backend
	codec   Codec
	version uint16
	now     func() time.Time
	log     *logrus.Entry
}

// Open resolves the directory, creates it and opens the backend.
func Open(opts Options) (*LocalStorage, error) {
	dir := opts.Dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoragePath, err)
		}
		dir = filepath.Join(base, appDir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoragePath, err)
	}

	backend, err := OpenBackend(opts.Driver, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageAccess, err)
	}
	return New(backend, opts), nil
}

// New wraps an already open backend.
func New(backend Backend, opts Options) *LocalStorage {
	s := &LocalStorage{
		backend: backend,
		codec:   opts.Codec,
		version: opts.Version,
		now:     opts.Now,
		log:     logging.For(opts.Logger, "store", "local"),
	}
	if s.codec == nil {
		s.codec = JSON{}
	}
	if s.version == 0 {
		s.version = FormatVersion
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log.WithFields(logrus.Fields{
		"path":  backend.Path(),
		"codec": s.codec.Name(),
	}).Debug("storage opened")
	return s
}

func (s *LocalStorage) hashsum(payload any) (string, error) {
	b, err := s.codec.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Set wraps payload with version, timestamp and hashsum and writes it under
// key in a single backend write.
func (s *LocalStorage) Set(key string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return ErrClosed
	}

	now := s.now().Unix()
	if now < 0 {
		return ErrClock
	}
	sum, err := s.hashsum(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrWrite, err)
	}
	raw, err := s.codec.Marshal(record{
		Payload:    payload,
		Version:    s.version,
		LastUpdate: uint64(now),
		Hashsum:    sum,
	})
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", ErrWrite, err)
	}
	if err := s.backend.Put(key, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	s.log.WithFields(logrus.Fields{"key": key, "bytes": len(raw)}).Debug("record written")
	return nil
}

// Get decodes the record under key into out and verifies its hashsum.
// out must be a pointer.
func (s *LocalStorage) Get(key string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return ErrClosed
	}

	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageAccess, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDataNotFound, key)
	}

	dst := reflect.ValueOf(out)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return fmt.Errorf("%w: out must be a non-nil pointer, got %T", ErrDataBroken, out)
	}

	// Decode into scratch space; out is only written once the record checks out.
	scratch := reflect.New(dst.Elem().Type())
	rec := record{Payload: scratch.Interface()}
	if err := s.codec.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("%w: %v", ErrDataBroken, err)
	}
	if rec.Version > s.version {
		return fmt.Errorf("%w: %d > %d", ErrUnsupportedVersion, rec.Version, s.version)
	}
	sum, err := s.hashsum(rec.Payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataBroken, err)
	}
	if sum != rec.Hashsum {
		s.log.WithField("key", key).Warn("hashsum mismatch")
		return fmt.Errorf("%w: %s", ErrHashsum, key)
	}
	dst.Elem().Set(scratch.Elem())
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *LocalStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return ErrClosed
	}
	if err := s.backend.Delete(key); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Path is the backend location on disk.
func (s *LocalStorage) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return ""
	}
	return s.backend.Path()
}

// Close releases the backend. Further calls return ErrClosed.
func (s *LocalStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	return err
}
