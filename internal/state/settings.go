package state

import (
	"errors"
	"fmt"
	"strings"

	"zebra/internal/keychain"
)

const (
	DefaultDifficulty uint32 = 2048
	DefaultLocale            = "en"
)

// Appearance is the UI theme preference.
type Appearance string

const (
	AppearanceSystem Appearance = "system"
	AppearanceLight  Appearance = "light"
	AppearanceDark   Appearance = "dark"
)

var (
	ErrBadAppearance = errors.New("appearance must be system, light or dark")
	ErrBadLocale     = errors.New("locale is empty")
)

// ParseAppearance maps a name to an Appearance; empty means system.
func ParseAppearance(s string) (Appearance, error) {
	switch a := Appearance(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AppearanceSystem, nil
	case AppearanceSystem, AppearanceLight, AppearanceDark:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadAppearance, s)
}

// CipherSettings controls key derivation cost and layer order.
type CipherSettings struct {
	Difficulty uint32               `json:"difficulty"`
	Orders     keychain.CipherOrder `json:"orders"`
}

// Settings are the user preferences stored with the vault.
type Settings struct {
	Cipher     CipherSettings `json:"cipher"`
	Appearance Appearance     `json:"appearance"`
	Locale     string         `json:"locale"`
}

// DefaultSettings returns fresh defaults.
func DefaultSettings() Settings {
	return Settings{
		Cipher: CipherSettings{
			Difficulty: DefaultDifficulty,
			Orders:     keychain.DefaultOrder(),
		},
		Appearance: AppearanceSystem,
		Locale:     DefaultLocale,
	}
}

// Validate checks every field.
func (s Settings) Validate() error {
	if s.Cipher.Difficulty == 0 {
		return keychain.ErrBadDifficulty
	}
	if err := s.Cipher.Orders.Validate(); err != nil {
		return err
	}
	if _, err := ParseAppearance(string(s.Appearance)); err != nil {
		return err
	}
	if strings.TrimSpace(s.Locale) == "" {
		return ErrBadLocale
	}
	return nil
}
