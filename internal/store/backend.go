package store

import (
	"fmt"
	"strings"
)

// Backend is the embedded key-value store under LocalStorage. A Put replaces
// the value for key in one atomic write.
type Backend interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	Path() string
	Close() error
}

const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Drivers lists the accepted driver names.
func Drivers() []string { return []string{DriverBolt, DriverSQLite, DriverFile} }

// OpenBackend opens the named driver inside dir. An empty driver means bolt.
func OpenBackend(driver, dir string) (Backend, error) {
	switch strings.ToLower(driver) {
	case "", DriverBolt:
		return openBolt(dir)
	case DriverSQLite:
		return openSQLite(dir)
	case DriverFile:
		return openFileBackend(dir)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}
