package store

import "errors"

var (
	ErrStoragePath        = errors.New("storage path could not be resolved")
	ErrStorageAccess      = errors.New("storage backend could not be opened")
	ErrUnknownDriver      = errors.New("unknown storage driver")
	ErrDataNotFound       = errors.New("no record for key")
	ErrDataBroken         = errors.New("stored record could not be decoded")
	ErrUnsupportedVersion = errors.New("stored record version is newer than supported")
	ErrHashsum            = errors.New("stored record hashsum mismatch")
	ErrWrite              = errors.New("storage write failed")
	ErrClock              = errors.New("system clock is before the unix epoch")
	ErrClosed             = errors.New("storage is closed")
)
