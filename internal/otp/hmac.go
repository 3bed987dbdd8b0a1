package otp

import (
	"fmt"

	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

const (
	ipad = 0x36
	opad = 0x5c
)

// HMAC computes H((K ^ opad) || H((K ^ ipad) || message)) as defined in
// RFC 2104. Keys longer than the block size are hashed first, shorter ones
// are zero padded.
func HMAC(alg Algorithm, key, message []byte) ([]byte, error) {
	h := alg.New()
	if h == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(alg))
	}
	blockSize := h.BlockSize()

	k := make([]byte, blockSize)
	if len(key) > blockSize {
		h.Write(key)
		copy(k, h.Sum(nil))
		h.Reset()
	} else {
		copy(k, key)
	}

	pad := make([]byte, blockSize)
	defer common.WipeByteArray(k)
	defer common.WipeByteArray(pad)

	for i := range k {
		pad[i] = k[i] ^ ipad
	}
	h.Write(pad)
	h.Write(message)
	inner := h.Sum(nil)

	for i := range k {
		pad[i] = k[i] ^ opad
	}
	h.Reset()
	h.Write(pad)
	h.Write(inner)
	return h.Sum(nil), nil
}
