package otp

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

const (
	uriScheme = "otpauth"
	uriType   = "totp"
)

// Key is the OTP part of an account: what an otpauth URI carries.
type Key struct {
	Issuer      string
	AccountName string
	// Secret is cleaned Base32 (upper case, no separators).
	Secret string
	Params
}

// ParseURI parses an otpauth://totp/ URI. Every failure wraps
// common.ErrInvalidURI and no partial Key is returned.
func ParseURI(raw string) (Key, error) {
	k, err := parseURI(strings.TrimSpace(raw))
	if err != nil {
		return Key{}, fmt.Errorf("%w: %w", common.ErrInvalidURI, err)
	}
	return k, nil
}

func parseURI(raw string) (Key, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Key{}, err
	}
	if !strings.EqualFold(u.Scheme, uriScheme) {
		return Key{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if !strings.EqualFold(u.Host, uriType) {
		return Key{}, fmt.Errorf("unsupported type %q", u.Host)
	}

	var k Key
	if k.Issuer, k.AccountName, err = parseLabel(u.EscapedPath()); err != nil {
		return Key{}, err
	}

	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return Key{}, err
	}
	params := make(map[string]string, len(q))
	for name, values := range q {
		name = strings.ToLower(name)
		if _, seen := params[name]; seen || len(values) == 0 {
			continue
		}
		params[name] = values[0]
	}

	k.Secret = Clean(params["secret"])
	if k.Secret == "" {
		return Key{}, errors.New("missing secret")
	}
	if len(Decode(k.Secret)) == 0 {
		return Key{}, common.ErrInvalidSecret
	}

	if issuer := strings.TrimSpace(params["issuer"]); issuer != "" {
		k.Issuer = issuer
	}

	k.Params = DefaultParams()
	if v, ok := params["algorithm"]; ok {
		if k.Algorithm, err = ParseAlgorithm(v); err != nil {
			return Key{}, err
		}
	}
	if v, ok := params["digits"]; ok {
		if k.Digits, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return Key{}, fmt.Errorf("digits: %w", err)
		}
	}
	if v, ok := params["period"]; ok {
		if k.Period, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return Key{}, fmt.Errorf("period: %w", err)
		}
	}
	if err := k.Params.Validate(URILimits); err != nil {
		return Key{}, err
	}
	return k, nil
}

// parseLabel splits "issuer:account". A literal colon in the escaped path is
// the separator; otherwise a percent-encoded one is accepted too.
func parseLabel(escaped string) (issuer, account string, err error) {
	escaped = strings.TrimPrefix(escaped, "/")
	if i := strings.IndexByte(escaped, ':'); i >= 0 {
		if issuer, err = url.PathUnescape(escaped[:i]); err != nil {
			return "", "", err
		}
		if account, err = url.PathUnescape(escaped[i+1:]); err != nil {
			return "", "", err
		}
		return strings.TrimSpace(issuer), strings.TrimSpace(account), nil
	}

	label, err := url.PathUnescape(escaped)
	if err != nil {
		return "", "", err
	}
	if i := strings.IndexByte(label, ':'); i >= 0 {
		return strings.TrimSpace(label[:i]), strings.TrimSpace(label[i+1:]), nil
	}
	return "", strings.TrimSpace(label), nil
}

// FormatURI renders k as an otpauth URI. Parameters equal to the defaults
// are left out.
func FormatURI(k Key) string {
	p := k.Params.WithDefaults()

	var b strings.Builder
	b.WriteString(uriScheme + "://" + uriType + "/")
	if k.Issuer != "" {
		b.WriteString(escapeLabel(k.Issuer))
		b.WriteByte(':')
	}
	b.WriteString(escapeLabel(k.AccountName))

	b.WriteString("?secret=")
	b.WriteString(Clean(k.Secret))
	if k.Issuer != "" {
		b.WriteString("&issuer=")
		b.WriteString(escapeQuery(k.Issuer))
	}
	if p.Algorithm != DefaultAlgorithm {
		b.WriteString("&algorithm=")
		b.WriteString(p.Algorithm.String())
	}
	if p.Digits != DefaultDigits {
		b.WriteString("&digits=")
		b.WriteString(strconv.Itoa(p.Digits))
	}
	if p.Period != DefaultPeriod {
		b.WriteString("&period=")
		b.WriteString(strconv.Itoa(p.Period))
	}
	return b.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), ":", "%3A")
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
