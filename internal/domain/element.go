package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a vault entry.
type Kind string

const (
	KindLogin Kind = "login"
	KindNote  Kind = "note"
	KindCard  Kind = "card"
	KindOther Kind = "other"
)

var (
	ErrUnknownKind = errors.New("unknown element kind")
	ErrEmptyTitle  = errors.New("element title is empty")
	ErrMissingID   = errors.New("element id is missing")
	ErrDuplicateID = errors.New("element id already present")
)

// ParseKind maps a name to a Kind; empty means login.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindLogin, nil
	case KindLogin, KindNote, KindCard, KindOther:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Element is one secret in the vault.
type Element struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Login   string    `json:"login,omitempty"`
	Secret  string    `json:"secret,omitempty"`
	URL     string    `json:"url,omitempty"`
	Notes   string    `json:"notes,omitempty"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// NewElement returns an element with a fresh random id and both timestamps
// set to now.
func NewElement(kind Kind, title string, now time.Time) Element {
	now = now.UTC().Truncate(time.Second)
	return Element{
		ID:      uuid.New(),
		Kind:    kind,
		Title:   title,
		Created: now,
		Updated: now,
	}
}

// Validate checks the fields every stored element must have.
func (e Element) Validate() error {
	if e.ID == uuid.Nil {
		return ErrMissingID
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := ParseKind(string(e.Kind)); err != nil {
		return err
	}
	return nil
}

// DataSet is the decrypted vault content.
type DataSet []Element

// Index returns the position of id, or -1.
func (d DataSet) Index(id uuid.UUID) int {
	for i := range d {
		if d[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with d.
func (d DataSet) Clone() DataSet {
	if d == nil {
		return DataSet{}
	}
	return append(DataSet(make([]Element, 0, len(d))), d...)
}

// Validate checks each element and rejects duplicate ids.
func (d DataSet) Validate() error {
	seen := make(map[uuid.UUID]struct{}, len(d))
	for _, e := range d {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("element %s: %w", e.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
