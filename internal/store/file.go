package store

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const fileDir = "records"

// fileBackend keeps one file per key, written with WriteFileAtomic.
type fileBackend struct {
	dir string
	mu  sync.Mutex
}

var _ Backend = (*fileBackend)(nil)

func openFileBackend(dir string) (*fileBackend, error) {
	d := filepath.Join(dir, fileDir)
	if err := os.MkdirAll(d, 0o700); err != nil {
		return nil, err
	}
	return &fileBackend{dir: d}, nil
}

// Keys are hex encoded so any string maps to a safe file name.
func (f *fileBackend) file(key string) string {
	return filepath.Join(f.dir, hex.EncodeToString([]byte(key))+".rec")
}

func (f *fileBackend) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return readFile(f.file(key))
}

func (f *fileBackend) Put(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return WriteFileAtomic(f.file(key), value, 0o600)
}

func (f *fileBackend) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.file(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (f *fileBackend) Path() string { return f.dir }

func (f *fileBackend) Close() error { return nil }
