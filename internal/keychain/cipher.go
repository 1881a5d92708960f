package keychain

import (
	"errors"
	"fmt"
	"strings"
)

// Cipher names one encryption layer.
type Cipher uint8

const (
	AES256 Cipher = iota + 1
	// PostQuantum1277 is the post-quantum layer. The name is kept for
	// persisted settings; the layer is backed by NTRU Prime 4591^761.
	PostQuantum1277
)

var ErrUnknownCipher = errors.New("unknown cipher")

func (c Cipher) String() string {
	switch c {
	case AES256:
		return "AES256"
	case PostQuantum1277:
		return "PostQuantum1277"
	}
	return fmt.Sprintf("Cipher(%d)", uint8(c))
}

// ParseCipher accepts the persisted cipher names, case-insensitively.
func ParseCipher(s string) (Cipher, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aes256":
		return AES256, nil
	case "postquantum1277":
		return PostQuantum1277, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCipher, s)
}

func (c Cipher) MarshalText() ([]byte, error) {
	if c != AES256 && c != PostQuantum1277 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCipher, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Cipher) UnmarshalText(b []byte) error {
	parsed, err := ParseCipher(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CipherOrder lists the layers applied on encrypt; decrypt walks it backwards.
type CipherOrder []Cipher

// DefaultOrder is post-quantum first, then AES.
func DefaultOrder() CipherOrder {
	return CipherOrder{PostQuantum1277, AES256}
}

// Validate rejects an empty order or unknown entries.
func (o CipherOrder) Validate() error {
	if len(o) == 0 {
		return fmt.Errorf("%w: empty cipher order", ErrUnknownCipher)
	}
	for _, c := range o {
		if c != AES256 && c != PostQuantum1277 {
			return fmt.Errorf("%w: %d", ErrUnknownCipher, uint8(c))
		}
	}
	return nil
}

func (o CipherOrder) String() string {
	parts := make([]string, len(o))
	for i, c := range o {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// ParseCipherOrder parses a comma separated list such as "PostQuantum1277,AES256".
func ParseCipherOrder(s string) (CipherOrder, error) {
	var out CipherOrder
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCipher(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
