// Package cryptox holds the vault key derivation and the AES-256-GCM blob
// format shared by every otpkeeper client.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

const NonceSize = 12

// Encrypt seals plaintext with AES-256-GCM and returns
// base64(nonce || ciphertext || tag). A fresh random nonce is used per call.
//
// The key must be KeySize bytes.
func Encrypt(plaintext, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce, err := common.GenerateRandBytes(NonceSize)
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Malformed base64, a blob shorter than the nonce
// and tag verification failures all return common.ErrDecryptionFailed and
// no plaintext.
func Decrypt(blob string, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base64", common.ErrDecryptionFailed)
	}
	if len(raw) < NonceSize {
		return nil, fmt.Errorf("%w: blob too short", common.ErrDecryptionFailed)
	}

	// Non-nil dst so an empty plaintext comes back as an empty slice.
	plaintext, err := aesgcm.Open(make([]byte, 0, len(raw)), raw[:NonceSize], raw[NonceSize:], nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrKeyNotDerived, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
