package otp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

const (
	DefaultDigits = 6
	DefaultPeriod = 30

	// The generator itself accepts any digit count a uint32 can fill.
	// Account validation narrows this to 6..8.
	minDigits = 1
	maxDigits = 10
)

var ErrInvalidParameters = errors.New("invalid otp parameters")

var pow10 = [...]uint64{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000,
	10_000_000, 100_000_000, 1_000_000_000, 10_000_000_000}

// GenerateCode returns the TOTP code for secretB32 at unix (seconds).
// The counter is floor(unix/period) encoded as 8 big-endian bytes.
func GenerateCode(secretB32 string, alg Algorithm, digits, period int, unix int64) (string, error) {
	if period <= 0 {
		return "", fmt.Errorf("%w: period %d", ErrInvalidParameters, period)
	}
	if unix < 0 {
		return "", fmt.Errorf("%w: negative time %d", ErrInvalidParameters, unix)
	}
	key := Decode(secretB32)
	defer common.WipeByteArray(key)
	return hotp(key, alg, digits, uint64(unix)/uint64(period))
}

// HOTP returns the RFC 4226 code for secretB32 at counter.
func HOTP(secretB32 string, alg Algorithm, digits int, counter uint64) (string, error) {
	key := Decode(secretB32)
	defer common.WipeByteArray(key)
	return hotp(key, alg, digits, counter)
}

func hotp(key []byte, alg Algorithm, digits int, counter uint64) (string, error) {
	if len(key) == 0 {
		return "", common.ErrInvalidSecret
	}
	if digits < minDigits || digits > maxDigits {
		return "", fmt.Errorf("%w: digits %d", ErrInvalidParameters, digits)
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	sum, err := HMAC(alg, key, msg[:])
	if err != nil {
		return "", err
	}

	offset := sum[len(sum)-1] & 0x0f
	value := uint64(sum[offset]&0x7f)<<24 |
		uint64(sum[offset+1])<<16 |
		uint64(sum[offset+2])<<8 |
		uint64(sum[offset+3])

	return fmt.Sprintf("%0*d", digits, value%pow10[digits]), nil
}

// RemainingSeconds is how long the code for unix stays valid.
func RemainingSeconds(period int, unix int64) int {
	if period <= 0 {
		return 0
	}
	p := int64(period)
	return int(p - ((unix%p)+p)%p)
}
