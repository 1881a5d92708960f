package vault

import "errors"

var (
	ErrGuardInvalidPassword = errors.New("invalid password")
	ErrGuardBrokenData      = errors.New("vault data could not be decoded")
	ErrGuardNotUnlocked     = errors.New("vault is locked")
	ErrGuardInvalidMnemonic = errors.New("mnemonic does not match this vault")
	ErrAlreadyInited        = errors.New("vault is already initialized")
	ErrPasswordRequired     = errors.New("password is required")
	ErrMnemonicRequired     = errors.New("mnemonic is required")
	ErrElementNotFound      = errors.New("element not found")
	ErrNotRestorable        = errors.New("vault cannot be restored from a mnemonic")
)
