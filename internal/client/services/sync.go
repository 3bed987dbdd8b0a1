package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/client/remote"
	"github.com/dmitrijs2005/otpkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/otpkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/otpkeeper/internal/client/vault"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/logging"
)

// SyncResult summarizes one Sync run.
type SyncResult struct {
	Local       int
	Remote      int
	Merged      int
	RemoteFound bool
	SyncedAt    time.Time
}

type SyncService interface {
	Sync(ctx context.Context) (SyncResult, error)
	// LastSynced returns the zero time when the vault was never synced.
	LastSynced(ctx context.Context) (time.Time, error)
}

type syncService struct {
	session  KeySession
	cipher   *vault.Cipher
	accounts accounts.Repository
	meta     metadata.Repository
	store    remote.Store
	log      logging.Logger
	now      func() time.Time
}

func NewSyncService(session KeySession, accounts accounts.Repository, meta metadata.Repository,
	store remote.Store, log logging.Logger) SyncService {
	return &syncService{
		session:  session,
		cipher:   vault.NewCipher(session),
		accounts: accounts,
		meta:     meta,
		store:    store,
		log:      log.With("component", "sync"),
		now:      time.Now,
	}
}

// Sync pulls the remote vault, merges it into the local accounts, stores the
// result locally and uploads it again. Nothing is written locally when the
// remote vault cannot be read or decrypted.
func (s *syncService) Sync(ctx context.Context) (SyncResult, error) {
	if !s.session.IsReady() {
		return SyncResult{}, common.ErrKeyNotDerived
	}
	email := s.session.Email()

	local, err := s.accounts.GetAll(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load local accounts: %w", err)
	}

	remoteAccounts, found, err := s.pull(ctx, email)
	if err != nil {
		return SyncResult{}, err
	}

	merged := vault.Merge(local, remoteAccounts)
	if err := s.accounts.ReplaceAll(ctx, merged); err != nil {
		return SyncResult{}, fmt.Errorf("save merged accounts: %w", err)
	}

	blob, err := s.cipher.EncryptAccounts(merged, email)
	if err != nil {
		return SyncResult{}, fmt.Errorf("encryption error: %w", err)
	}

	now := s.now()
	doc := models.VaultDocument{
		EncryptedData: blob,
		UserID:        email,
		UpdatedAt:     now,
		Version:       models.VaultVersion,
	}
	if err := s.store.Put(ctx, doc); err != nil {
		return SyncResult{}, fmt.Errorf("upload vault: %w", err)
	}

	err = metadata.SetTimes(ctx, s.meta, map[string]time.Time{
		metadata.KeyLastSyncedAt:    now,
		metadata.KeyRemoteUpdatedAt: doc.UpdatedAt,
	})
	if err != nil {
		return SyncResult{}, fmt.Errorf("save metadata: %w", err)
	}

	res := SyncResult{
		Local:       len(local),
		Remote:      len(remoteAccounts),
		Merged:      len(merged),
		RemoteFound: found,
		SyncedAt:    now,
	}
	s.log.Info(ctx, "sync finished",
		"local", res.Local, "remote", res.Remote, "merged", res.Merged, "remote_found", found)
	return res, nil
}

// pull fetches and decrypts the remote vault. A missing document is not an
// error; it yields no accounts and found == false.
func (s *syncService) pull(ctx context.Context, email string) ([]models.Account, bool, error) {
	doc, err := s.store.Get(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		s.log.Info(ctx, "no remote vault yet, uploading local accounts")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("download vault: %w", err)
	}

	if doc.UserID != email {
		return nil, true, fmt.Errorf("%w: vault belongs to another user", common.ErrorUnauthorized)
	}
	if doc.Version != models.VaultVersion {
		return nil, true, fmt.Errorf("%w: document version %d", common.ErrIncompatibleVersion, doc.Version)
	}

	decrypted, err := s.cipher.DecryptAccounts(doc.EncryptedData)
	if err != nil {
		return nil, true, err
	}

	out := decrypted[:0]
	for _, a := range decrypted {
		if a.ID == "" {
			s.log.Warn(ctx, "dropping remote account without id")
			continue
		}
		out = append(out, a)
	}
	return out, true, nil
}

func (s *syncService) LastSynced(ctx context.Context) (time.Time, error) {
	return metadata.GetTime(ctx, s.meta, metadata.KeyLastSyncedAt)
}
