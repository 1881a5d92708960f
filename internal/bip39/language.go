package bip39

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// Language selects the word list a phrase is written in.
type Language uint8

const (
	English Language = iota
	Spanish
	French
	Italian
	Czech
	Japanese
	Korean
	ChineseSimplified
	ChineseTraditional

	numLanguages
)

var languageNames = [numLanguages]string{
	English:            "english",
	Spanish:            "spanish",
	French:             "french",
	Italian:            "italian",
	Czech:              "czech",
	Japanese:           "japanese",
	Korean:             "korean",
	ChineseSimplified:  "chinese-simplified",
	ChineseTraditional: "chinese-traditional",
}

// String returns the lowercase language name.
func (l Language) String() string {
	if l >= numLanguages {
		return fmt.Sprintf("language(%d)", uint8(l))
	}
	return languageNames[l]
}

// ParseLanguage maps a name such as "english" back to a Language.
func ParseLanguage(name string) (Language, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range languageNames {
		if n == name {
			return Language(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// MarshalText encodes the language by name.
func (l Language) MarshalText() ([]byte, error) {
	if l >= numLanguages {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText mirrors MarshalText.
func (l *Language) UnmarshalText(b []byte) error {
	parsed, err := ParseLanguage(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Language) separator() string {
	if l == Japanese {
		return "　"
	}
	return " "
}

func (l Language) list() ([]string, error) {
	switch l {
	case English:
		return wordlists.English, nil
	case Spanish:
		return wordlists.Spanish, nil
	case French:
		return wordlists.French, nil
	case Italian:
		return wordlists.Italian, nil
	case Czech:
		return wordlists.Czech, nil
	case Japanese:
		return wordlists.Japanese, nil
	case Korean:
		return wordlists.Korean, nil
	case ChineseSimplified:
		return wordlists.ChineseSimplified, nil
	case ChineseTraditional:
		return wordlists.ChineseTraditional, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, uint8(l))
}

type wordIndex struct {
	once sync.Once
	m    map[string]uint16
}

var indexes [numLanguages]wordIndex

// index returns the NFKD word -> position map for the language.
func (l Language) index() (map[string]uint16, error) {
	words, err := l.list()
	if err != nil {
		return nil, err
	}
	idx := &indexes[l]
	idx.once.Do(func() {
		idx.m = make(map[string]uint16, len(words))
		for i, w := range words {
			idx.m[norm.NFKD.String(w)] = uint16(i)
		}
	})
	return idx.m, nil
}
