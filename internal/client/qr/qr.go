// Package qr renders otpauth URIs as QR codes for export.
package qr

import (
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent = errors.New("qr content cannot be empty")
	ErrGenerate     = errors.New("failed to generate QR code")
)

const DefaultSize = 256

// PNG encodes content as a size x size PNG. A non-positive size means
// DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return png, nil
}

// Terminal renders content as block characters for printing to a terminal.
func Terminal(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	code, err := skipqrcode.New(content, skipqrcode.Medium)
	if err != nil {
		return "", errors.Join(ErrGenerate, err)
	}
	return code.ToString(false), nil
}
