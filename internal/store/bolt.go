package store

import (
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	boltFile   = "zebra.db"
	boltBucket = "zebra"
)

type boltBackend struct {
	db   *bolt.DB
	path string
}

var _ Backend = (*boltBackend)(nil)

func openBolt(dir string) (*boltBackend, error) {
	path := filepath.Join(dir, boltFile)
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltBackend{db: db, path: path}, nil
}

func (b *boltBackend) Get(key string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v != nil {
			// v is only valid inside the transaction.
			out = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (b *boltBackend) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
}

func (b *boltBackend) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
}

func (b *boltBackend) Path() string { return b.path }

func (b *boltBackend) Close() error { return b.db.Close() }
