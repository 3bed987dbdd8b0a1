// Package session keeps the derived vault key for the signed-in user.
//
// A Session is safe for concurrent use. Derive and Clear swap the whole
// state; readers never see a half-written key.
package session

import (
	"sync/atomic"

	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/cryptox"
)

type state struct {
	email string
	key   []byte
}

type Session struct {
	cur    atomic.Pointer[state]
	derive func(password []byte, email string) []byte
}

// New returns an empty session using PBKDF2 key derivation.
func New() *Session {
	return &Session{derive: cryptox.DeriveKey}
}

// Derive computes the key for (password, email) and makes it current.
// It takes about as long as the KDF (100k PBKDF2 rounds).
func (s *Session) Derive(password []byte, email string) {
	key := s.derive(password, email)
	s.cur.Store(&state{email: email, key: key})
}

// Clear drops the key. Key returns ErrKeyNotDerived afterwards.
// The old state is not zeroed since concurrent readers may still hold it.
func (s *Session) Clear() {
	s.cur.Store(nil)
}

func (s *Session) IsReady() bool {
	return s.cur.Load() != nil
}

// Key returns a copy of the current key.
func (s *Session) Key() ([]byte, error) {
	st := s.cur.Load()
	if st == nil {
		return nil, common.ErrKeyNotDerived
	}
	out := make([]byte, len(st.key))
	copy(out, st.key)
	return out, nil
}

// Email is the identity the key was derived for, or "" when cleared.
func (s *Session) Email() string {
	if st := s.cur.Load(); st != nil {
		return st.email
	}
	return ""
}
