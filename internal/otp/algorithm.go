package otp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// Algorithm names the hash an account's HMAC runs over. Values are the
// normalized upper-case names stored in accounts and URIs.
type Algorithm string

const (
	SHA1   Algorithm = "SHA1"
	SHA256 Algorithm = "SHA256"
	SHA512 Algorithm = "SHA512"
)

// DefaultAlgorithm is used when an account or URI does not name one.
const DefaultAlgorithm = SHA1

var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// ParseAlgorithm accepts sha1, SHA-256, Sha512 and so on. An empty string
// means the default.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "")
	if name == "" {
		return DefaultAlgorithm, nil
	}
	a := Algorithm(name)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
	return a, nil
}

func (a Algorithm) Valid() bool {
	switch a {
	case SHA1, SHA256, SHA512:
		return true
	}
	return false
}

func (a Algorithm) String() string {
	return string(a)
}

// New returns a fresh hash for a, or nil if a is not a supported algorithm.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	}
	return nil
}

// BlockSize is the hash block size in bytes (64 for SHA1/SHA256, 128 for SHA512).
func (a Algorithm) BlockSize() int {
	switch a {
	case SHA1:
		return sha1.BlockSize
	case SHA256:
		return sha256.BlockSize
	case SHA512:
		return sha512.BlockSize
	}
	return 0
}

// Size is the digest length in bytes.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	case SHA512:
		return sha512.Size
	}
	return 0
}
