package app

import (
	"github.com/sirupsen/logrus"

	"zebra/internal/logging"
	"zebra/internal/services/vault"
	"zebra/internal/store"
)

// Wire bundles the logger, storage and vault service for the CLI.
type Wire struct {
	Config  *Config
	Log     *logrus.Logger
	Storage *store.LocalStorage
	Vault   *vault.Service
}

// NewWire constructs the dependency graph from cfg and syncs the vault state.
func NewWire(cfg *Config) (*Wire, error) {
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(store.Options{
		Dir:    cfg.StorageDir(),
		Driver: cfg.Storage.Driver,
		Logger: log,
	})
	if err != nil {
		return nil, err
	}

	svc := vault.New(st, vault.WithLogger(log))
	if err := svc.Sync(); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &Wire{
		Config:  cfg,
		Log:     log,
		Storage: st,
		Vault:   svc,
	}, nil
}

// Close locks the vault and releases storage.
func (w *Wire) Close() error {
	w.Vault.Lock()
	return w.Storage.Close()
}
