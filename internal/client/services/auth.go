package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/otpkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/otpkeeper/internal/logging"
)

// ErrInvalidCredentials is returned by SignIn for an empty email or password.
var ErrInvalidCredentials = errors.New("email and password are required")

// KeySession holds the derived vault key. *session.Session implements it.
type KeySession interface {
	Derive(password []byte, email string)
	Clear()
	IsReady() bool
	Key() ([]byte, error)
	Email() string
}

type AuthService interface {
	SignIn(ctx context.Context, email string, password []byte) error
	SignOut(ctx context.Context) error
	IsSignedIn() bool
	// Email is the signed-in identity, or the one remembered from the last
	// session when nobody is signed in.
	Email(ctx context.Context) string
}

type authService struct {
	session KeySession
	meta    metadata.Repository
	log     logging.Logger
}

func NewAuthService(session KeySession, meta metadata.Repository, log logging.Logger) AuthService {
	return &authService{session: session, meta: meta, log: log.With("component", "auth")}
}

// SignIn derives the vault key for (email, password). Nothing is checked
// against a server: a wrong password shows up as a decryption failure on the
// next sync.
func (s *authService) SignIn(ctx context.Context, email string, password []byte) error {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return ErrInvalidCredentials
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	prev, err := metadata.GetString(ctx, s.meta, metadata.KeyEmail)
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}

	s.session.Derive(password, email)

	if prev != email {
		// Sync marks belong to the previous identity.
		for _, k := range []string{metadata.KeyLastSyncedAt, metadata.KeyRemoteUpdatedAt} {
			if err := s.meta.Delete(ctx, k); err != nil {
				s.session.Clear()
				return fmt.Errorf("reset metadata: %w", err)
			}
		}
	}
	if err := metadata.SetString(ctx, s.meta, metadata.KeyEmail, email); err != nil {
		s.session.Clear()
		return fmt.Errorf("save metadata: %w", err)
	}

	s.log.Info(ctx, "signed in", "email", email)
	return nil
}

func (s *authService) SignOut(ctx context.Context) error {
	s.session.Clear()
	if err := s.meta.Clear(ctx); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	s.log.Info(ctx, "signed out")
	return nil
}

func (s *authService) IsSignedIn() bool {
	return s.session.IsReady()
}

func (s *authService) Email(ctx context.Context) string {
	if e := s.session.Email(); e != "" {
		return e
	}
	e, err := metadata.GetString(ctx, s.meta, metadata.KeyEmail)
	if err != nil {
		s.log.Warn(ctx, "cannot read remembered email", "error", err)
		return ""
	}
	return e
}
