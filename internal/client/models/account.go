// Package models defines client-side data models used by the otpkeeper CLI.
package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/otpkeeper/internal/otp"
)

// Account is one OTP credential. The JSON names are the cross-client vault
// format and must not change.
type Account struct {
	// ID is generated at creation, never changes and is the merge key.
	ID string `json:"id" bson:"id"`

	Issuer      string `json:"issuer" bson:"issuer"`
	AccountName string `json:"accountName" bson:"accountName"`

	// Secret is Base32 text. It may still carry separators or lower case
	// when it comes from another client.
	Secret string `json:"secret" bson:"secret"`

	Algorithm otp.Algorithm `json:"algorithm" bson:"algorithm"`
	Digits    int           `json:"digits" bson:"digits"`
	Period    int           `json:"period" bson:"period"`

	// CreatedAt and UpdatedAt are epoch milliseconds. UpdatedAt decides
	// merge conflicts.
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// NewAccount builds an account from k with a fresh id, stamped at now.
func NewAccount(k otp.Key, now time.Time) Account {
	ms := now.UnixMilli()
	a := Account{
		ID:        uuid.NewString(),
		CreatedAt: ms,
		UpdatedAt: ms,
	}
	return a.WithKey(k)
}

// WithKey returns a copy of a carrying the OTP fields of k.
func (a Account) WithKey(k otp.Key) Account {
	p := k.Params.WithDefaults()
	a.Issuer = strings.TrimSpace(k.Issuer)
	a.AccountName = strings.TrimSpace(k.AccountName)
	a.Secret = otp.Clean(k.Secret)
	a.Algorithm = p.Algorithm
	a.Digits = p.Digits
	a.Period = p.Period
	return a
}

// Key returns the OTP part of the account.
func (a Account) Key() otp.Key {
	return otp.Key{
		Issuer:      a.Issuer,
		AccountName: a.AccountName,
		Secret:      a.Secret,
		Params:      a.Params(),
	}
}

// Params returns the generator settings with defaults applied.
func (a Account) Params() otp.Params {
	alg, err := otp.ParseAlgorithm(string(a.Algorithm))
	if err != nil {
		alg = a.Algorithm
	}
	return otp.Params{Algorithm: alg, Digits: a.Digits, Period: a.Period}.WithDefaults()
}

// Normalized upper-cases the algorithm and cleans the secret. Accounts
// arriving from other clients pass through here before they are stored.
func (a Account) Normalized() Account {
	p := a.Params()
	a.Algorithm = p.Algorithm
	a.Digits = p.Digits
	a.Period = p.Period
	a.Secret = otp.Clean(a.Secret)
	return a
}

// Code returns the TOTP code at unix seconds.
func (a Account) Code(unix int64) (string, error) {
	p := a.Params()
	return otp.GenerateCode(a.Secret, p.Algorithm, p.Digits, p.Period, unix)
}

// Label is "Issuer (name)", or just the name without an issuer.
func (a Account) Label() string {
	switch {
	case a.Issuer == "":
		return a.AccountName
	case a.AccountName == "":
		return a.Issuer
	}
	return a.Issuer + " (" + a.AccountName + ")"
}

// SortForDisplay orders accounts by issuer, then account name, then id,
// ignoring case.
func SortForDisplay(accounts []Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		a, b := accounts[i], accounts[j]
		if c := compareFold(a.Issuer, b.Issuer); c != 0 {
			return c < 0
		}
		if c := compareFold(a.AccountName, b.AccountName); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CodeView is one row of the live code list.
type CodeView struct {
	ID        string
	Label     string
	Code      string
	Remaining int
	Err       error
}
