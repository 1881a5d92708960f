package bip39

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	MinEntropyBits = 128
	MaxEntropyBits = 256
	MinWords       = 12
	MaxWords       = 24

	bitsPerWord = 11
)

var (
	ErrBadEntropyBitCount = errors.New("entropy must be 128-256 bits in steps of 32")
	ErrBadWordCount       = errors.New("word count must be 12, 15, 18, 21 or 24")
	ErrUnknownWord        = errors.New("word is not in the word list")
	ErrInvalidChecksum    = errors.New("mnemonic checksum mismatch")
	ErrUnknownLanguage    = errors.New("unknown mnemonic language")
	ErrEntropySource      = errors.New("reading entropy failed")
)

// UnknownWordError reports the zero-based position of a word missing from the
// word list. It matches ErrUnknownWord with errors.Is.
type UnknownWordError struct {
	Position int
	Word     string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("unknown word %q at position %d", e.Word, e.Position)
}

func (e *UnknownWordError) Is(target error) bool { return target == ErrUnknownWord }

// Mnemonic is an immutable sequence of word indices in one language.
type Mnemonic struct {
	lang  Language
	words [MaxWords]uint16
	count int
}

// ValidWordCount reports whether n is an accepted phrase length.
func ValidWordCount(n int) bool {
	return n%3 == 0 && n >= MinWords && n <= MaxWords
}

// FromEntropy builds the mnemonic encoding entropy. The word count follows
// from the entropy length: 16 bytes give 12 words, 32 bytes give 24.
func FromEntropy(lang Language, entropy []byte) (*Mnemonic, error) {
	bits := len(entropy) * 8
	if len(entropy)%4 != 0 || bits < MinEntropyBits || bits > MaxEntropyBits {
		return nil, fmt.Errorf("%w: got %d bits", ErrBadEntropyBitCount, bits)
	}
	if _, err := lang.list(); err != nil {
		return nil, err
	}

	// At most 8 checksum bits, so the first hash byte is enough.
	sum := sha256.Sum256(entropy)
	buf := make([]byte, len(entropy)+1)
	copy(buf, entropy)
	buf[len(entropy)] = sum[0]

	m := &Mnemonic{lang: lang, count: (bits + bits/32) / bitsPerWord}
	for i := 0; i < m.count; i++ {
		var idx uint16
		for b := 0; b < bitsPerWord; b++ {
			pos := i*bitsPerWord + b
			bit := (buf[pos/8] >> (7 - uint(pos%8))) & 1
			idx = idx<<1 | uint16(bit)
		}
		m.words[i] = idx
	}
	return m, nil
}

// Generate draws wordCount/3*4 bytes from rng and encodes them.
func Generate(rng io.Reader, lang Language, wordCount int) (*Mnemonic, error) {
	if !ValidWordCount(wordCount) {
		return nil, fmt.Errorf("%w: got %d", ErrBadWordCount, wordCount)
	}
	entropy := make([]byte, wordCount/3*4)
	if _, err := io.ReadFull(rng, entropy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
	}
	return FromEntropy(lang, entropy)
}

// Parse validates phrase against the language word list and checksum.
func Parse(lang Language, phrase string) (*Mnemonic, error) {
	index, err := lang.index()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(norm.NFKD.String(phrase))
	if !ValidWordCount(len(fields)) {
		return nil, fmt.Errorf("%w: got %d", ErrBadWordCount, len(fields))
	}

	m := &Mnemonic{lang: lang, count: len(fields)}
	for i, w := range fields {
		idx, ok := index[w]
		if !ok {
			return nil, &UnknownWordError{Position: i, Word: w}
		}
		m.words[i] = idx
	}

	buf, entBits := m.bits()
	entropy := buf[:entBits/8]
	csBits := uint(m.count / 3)
	sum := sha256.Sum256(entropy)
	if buf[entBits/8]>>(8-csBits) != sum[0]>>(8-csBits) {
		return nil, ErrInvalidChecksum
	}
	return m, nil
}

// ToEntropy parses phrase and returns the entropy it encodes.
func ToEntropy(lang Language, phrase string) ([]byte, error) {
	m, err := Parse(lang, phrase)
	if err != nil {
		return nil, err
	}
	return m.Entropy(), nil
}

// Validate reports whether phrase is a well-formed mnemonic.
func Validate(lang Language, phrase string) bool {
	_, err := Parse(lang, phrase)
	return err == nil
}

// bits packs the word indices back into a bit string and returns it with the
// number of leading entropy bits.
func (m *Mnemonic) bits() ([]byte, int) {
	total := m.count * bitsPerWord
	buf := make([]byte, (total+7)/8)
	for i := 0; i < m.count; i++ {
		idx := m.words[i]
		for b := 0; b < bitsPerWord; b++ {
			if idx>>(bitsPerWord-1-b)&1 == 1 {
				pos := i*bitsPerWord + b
				buf[pos/8] |= 1 << (7 - uint(pos%8))
			}
		}
	}
	return buf, total - m.count/3
}

// Entropy returns a copy of the encoded entropy.
func (m *Mnemonic) Entropy() []byte {
	buf, entBits := m.bits()
	return append([]byte(nil), buf[:entBits/8]...)
}

// Language returns the word list language.
func (m *Mnemonic) Language() Language { return m.lang }

// WordCount returns the number of words.
func (m *Mnemonic) WordCount() int { return m.count }

// Indices returns the word indices in order.
func (m *Mnemonic) Indices() []uint16 {
	return append([]uint16(nil), m.words[:m.count]...)
}

// Words returns the words in order.
func (m *Mnemonic) Words() []string {
	list, _ := m.lang.list()
	out := make([]string, m.count)
	for i := range out {
		out[i] = list[m.words[i]]
	}
	return out
}

// Phrase joins the words with the language separator.
func (m *Mnemonic) Phrase() string {
	return strings.Join(m.Words(), m.lang.separator())
}

// String returns the phrase.
func (m *Mnemonic) String() string { return m.Phrase() }
