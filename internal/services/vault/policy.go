package vault

import (
	"fmt"
	"unicode"
)

const (
	// minPasswordLength defines the minimum number of characters for a strong password.
	minPasswordLength = 12
)

var (
	// ErrWeakPassword describes the policy PasswordStrong checks.
	ErrWeakPassword = fmt.Errorf(
		"password is weak (should be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPasswordLength,
	)
)

// PasswordStrong reports whether password meets the strength policy. The
// policy is advisory: Init accepts any non-empty password.
func PasswordStrong(password string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len([]rune(password)) < minPasswordLength {
		return false
	}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
