package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltPrefix is joined with the account email to form the PBKDF2 salt.
	// Every client sharing a vault must use the same value.
	SaltPrefix = "otpkeeper-vault-salt"

	KDFIterations = 100_000
	KeySize       = 32
)

// Salt returns the salt string for email: SaltPrefix + ":" + email.
func Salt(email string) []byte {
	return []byte(SaltPrefix + ":" + email)
}

// DeriveKey derives the 256-bit vault key with PBKDF2-HMAC-SHA256.
// It is deterministic and deliberately slow (100k iterations).
func DeriveKey(password []byte, email string) []byte {
	return pbkdf2.Key(password, Salt(email), KDFIterations, KeySize, sha256.New)
}
