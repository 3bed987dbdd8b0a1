package otp

import "strings"

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// Characters people paste between secret groups. They are dropped like any
// other out-of-alphabet byte but are not counted as noise by DecodeReport.
const base32Separators = " \t\r\n-="

var base32DecodeMap = func() [256]int8 {
	var m [256]int8
	for i := range m {
		m[i] = -1
	}
	for i := 0; i < len(base32Alphabet); i++ {
		c := base32Alphabet[i]
		m[c] = int8(i)
		if c >= 'A' && c <= 'Z' {
			m[c+('a'-'A')] = int8(i)
		}
	}
	return m
}()

// Clean upper-cases text and drops every character outside [A-Z2-7].
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		v := base32DecodeMap[text[i]]
		if v < 0 {
			continue
		}
		b.WriteByte(base32Alphabet[v])
	}
	return b.String()
}

// Normalize cleans text and groups it in blocks of eight for display.
// Decode accepts the result unchanged.
func Normalize(text string) string {
	clean := Clean(text)
	var b strings.Builder
	b.Grow(len(clean) + len(clean)/8)
	for i := 0; i < len(clean); i++ {
		if i > 0 && i%8 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(clean[i])
	}
	return b.String()
}

// Decode reads RFC 4648 Base32 text. Padding is optional, case is ignored and
// characters outside the alphabet are skipped. Trailing bits that do not
// complete a byte are discarded.
func Decode(text string) []byte {
	out, _ := DecodeReport(text)
	return out
}

// DecodeReport is Decode that also returns how many characters were skipped,
// not counting the usual separators (spaces, dashes, '=').
func DecodeReport(text string) ([]byte, int) {
	out := make([]byte, 0, len(text)*5/8)
	var (
		buffer  uint32
		bits    uint
		skipped int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		v := base32DecodeMap[c]
		if v < 0 {
			if strings.IndexByte(base32Separators, c) < 0 {
				skipped++
			}
			continue
		}
		buffer = buffer<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
			buffer &= 1<<bits - 1
		}
	}
	return out, skipped
}

// Encode writes b as unpadded upper-case Base32. The last group is filled
// with zero bits.
func Encode(b []byte) string {
	var (
		sb     strings.Builder
		buffer uint32
		bits   uint
	)
	sb.Grow((len(b)*8 + 4) / 5)
	for _, c := range b {
		buffer = buffer<<8 | uint32(c)
		bits += 8
		for bits >= 5 {
			bits -= 5
			sb.WriteByte(base32Alphabet[(buffer>>bits)&0x1f])
		}
		buffer &= 1<<bits - 1
	}
	if bits > 0 {
		sb.WriteByte(base32Alphabet[(buffer<<(5-bits))&0x1f])
	}
	return sb.String()
}
