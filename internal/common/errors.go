// Package common defines sentinel errors and small helpers shared by the
// otpkeeper core and its client layers. Callers should use errors.Is to
// match these values; packages wrap them with fmt.Errorf("...: %w").
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInvalidSecret is returned when a Base32 secret is empty or decodes
	// to zero bytes. Codes cannot be generated for such an account.
	ErrInvalidSecret = errors.New("invalid secret")

	// ErrInvalidURI is returned for a malformed otpauth URI. No partial
	// account is produced.
	ErrInvalidURI = errors.New("invalid otpauth uri")

	// ErrIncompatibleVersion is returned when a decrypted vault envelope
	// (or its document) carries a version other than the supported one.
	// It is kept apart from ErrDecryptionFailed so callers can suggest
	// re-syncing from an up-to-date client instead of "wrong password".
	ErrIncompatibleVersion = errors.New("incompatible vault version")

	// ErrDecryptionFailed covers tag mismatch and malformed blobs.
	ErrDecryptionFailed = errors.New("wrong password or corrupted data")

	// ErrKeyNotDerived means a key-dependent operation ran before sign-in.
	ErrKeyNotDerived = errors.New("vault key not derived")
)
