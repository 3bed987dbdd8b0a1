package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/client/qr"
	"github.com/dmitrijs2005/otpkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/logging"
	"github.com/dmitrijs2005/otpkeeper/internal/otp"
)

// AccountInput is an account as typed in by hand. Zero Algorithm, Digits and
// Period take the defaults.
type AccountInput struct {
	Issuer      string
	AccountName string
	Secret      string
	Algorithm   string
	Digits      int
	Period      int
}

type AccountService interface {
	Add(ctx context.Context, in AccountInput) (models.Account, error)
	Import(ctx context.Context, uri string) (models.Account, error)
	Export(ctx context.Context, id string) (string, error)
	ExportQR(ctx context.Context, id string, size int) ([]byte, error)
	Update(ctx context.Context, id string, in AccountInput) (models.Account, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context) ([]models.Account, error)
	Codes(ctx context.Context, now time.Time) ([]models.CodeView, error)
}

type accountService struct {
	repo accounts.Repository
	log  logging.Logger
	now  func() time.Time
}

func NewAccountService(repo accounts.Repository, log logging.Logger) AccountService {
	return &accountService{repo: repo, log: log.With("component", "accounts"), now: time.Now}
}

// key validates in and turns it into an otp.Key.
func (s *accountService) key(ctx context.Context, in AccountInput) (otp.Key, error) {
	alg, err := otp.ParseAlgorithm(in.Algorithm)
	if err != nil {
		return otp.Key{}, err
	}
	p := otp.Params{Algorithm: alg, Digits: in.Digits, Period: in.Period}.WithDefaults()
	if err := p.Validate(otp.ManualLimits); err != nil {
		return otp.Key{}, err
	}

	name := strings.TrimSpace(in.AccountName)
	if name == "" && strings.TrimSpace(in.Issuer) == "" {
		return otp.Key{}, fmt.Errorf("%w: issuer or account name is required", otp.ErrInvalidParameters)
	}

	if err := s.checkSecret(ctx, in.Secret); err != nil {
		return otp.Key{}, err
	}

	return otp.Key{Issuer: in.Issuer, AccountName: name, Secret: in.Secret, Params: p}, nil
}

func (s *accountService) checkSecret(ctx context.Context, secret string) error {
	b, skipped := otp.DecodeReport(secret)
	defer common.WipeByteArray(b)

	if skipped > 0 {
		s.log.Warn(ctx, "secret contains characters outside the Base32 alphabet, ignoring them", "skipped", skipped)
	}
	if len(b) == 0 {
		return common.ErrInvalidSecret
	}
	return nil
}

func (s *accountService) Add(ctx context.Context, in AccountInput) (models.Account, error) {
	k, err := s.key(ctx, in)
	if err != nil {
		return models.Account{}, err
	}

	a := models.NewAccount(k, s.now())
	if err := s.repo.Upsert(ctx, a); err != nil {
		return models.Account{}, fmt.Errorf("saving error: %w", err)
	}

	s.log.Info(ctx, "account added", "id", a.ID)
	return a, nil
}

func (s *accountService) Import(ctx context.Context, uri string) (models.Account, error) {
	k, err := otp.ParseURI(uri)
	if err != nil {
		return models.Account{}, err
	}

	a := models.NewAccount(k, s.now())
	if err := s.repo.Upsert(ctx, a); err != nil {
		return models.Account{}, fmt.Errorf("saving error: %w", err)
	}

	s.log.Info(ctx, "account imported", "id", a.ID)
	return a, nil
}

func (s *accountService) Export(ctx context.Context, id string) (string, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return otp.FormatURI(a.Key()), nil
}

func (s *accountService) ExportQR(ctx context.Context, id string, size int) ([]byte, error) {
	uri, err := s.Export(ctx, id)
	if err != nil {
		return nil, err
	}
	return qr.PNG(uri, size)
}

// Update replaces the OTP fields of an existing account. UpdatedAt always
// moves forward so the edit wins the next merge.
func (s *accountService) Update(ctx context.Context, id string, in AccountInput) (models.Account, error) {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}

	k, err := s.key(ctx, in)
	if err != nil {
		return models.Account{}, err
	}

	a := cur.WithKey(k)
	a.UpdatedAt = max(s.now().UnixMilli(), cur.UpdatedAt+1)

	if err := s.repo.Upsert(ctx, a); err != nil {
		return models.Account{}, fmt.Errorf("saving error: %w", err)
	}

	s.log.Info(ctx, "account updated", "id", a.ID)
	return a, nil
}

func (s *accountService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "id", id)
	return nil
}

func (s *accountService) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "all accounts deleted")
	return nil
}

// List returns the accounts in display order.
func (s *accountService) List(ctx context.Context) ([]models.Account, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	models.SortForDisplay(rows)
	return rows, nil
}

// Codes computes the current code of every account at now. A broken account
// gets its error in the row; it does not fail the whole list.
func (s *accountService) Codes(ctx context.Context, now time.Time) ([]models.CodeView, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	unix := now.Unix()
	result := make([]models.CodeView, 0, len(rows))
	for _, a := range rows {
		v := models.CodeView{
			ID:        a.ID,
			Label:     a.Label(),
			Remaining: otp.RemainingSeconds(a.Params().Period, unix),
		}
		v.Code, v.Err = a.Code(unix)
		if v.Err != nil {
			s.log.Warn(ctx, "cannot generate code", "id", a.ID, "error", v.Err)
		}
		result = append(result, v)
	}
	return result, nil
}
