// Package state holds the persisted vault record and its load/save cycle.
package state

import (
	"errors"
	"fmt"

	"zebra/internal/domain"
	"zebra/internal/store"
)

// StorageKey is the record key of the state.
const StorageKey = "ZEBRA_STATE_KEY"

var (
	ErrStateNotRead   = errors.New("state has not been synced from storage")
	ErrStateNotInited = errors.New("vault is not initialized")
)

// State is the single persisted vault record. Ready is runtime only and says
// whether the record was synced from storage in this process.
type State struct {
	Inited          bool     `json:"inited"`
	Ready           bool     `json:"-"`
	ServerSync      bool     `json:"server_sync"`
	Restorable      bool     `json:"restoreble"`
	Email           string   `json:"email"`
	Address         string   `json:"address"`
	SecureKeyStore  string   `json:"secure_key_store"`
	SecureDataStore string   `json:"secure_data_store"`
	Settings        Settings `json:"settings"`
}

// New returns an unsynced state with default settings.
func New() *State {
	return &State{Settings: DefaultSettings()}
}

// Sync loads the record from storage, or persists the current value when no
// record exists yet. On success the state is Ready.
func (s *State) Sync(st domain.Storage) error {
	var loaded State
	err := st.Get(StorageKey, &loaded)
	switch {
	case err == nil:
		*s = loaded
	case errors.Is(err, store.ErrDataNotFound):
		if err := st.Set(StorageKey, s); err != nil {
			return fmt.Errorf("persist initial state: %w", err)
		}
	default:
		return fmt.Errorf("load state: %w", err)
	}
	s.Ready = true
	return nil
}

// Update writes the state. It refuses to write before Sync so a default
// value never overwrites a record it has not seen.
func (s *State) Update(st domain.Storage) error {
	if !s.Ready {
		return ErrStateNotRead
	}
	if err := st.Set(StorageKey, s); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// Erase removes the record and resets to defaults. The state stays Ready.
func (s *State) Erase(st domain.Storage) error {
	if err := st.Remove(StorageKey); err != nil {
		return fmt.Errorf("erase state: %w", err)
	}
	*s = State{Settings: DefaultSettings(), Ready: true}
	return nil
}
