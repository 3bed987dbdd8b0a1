package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/otpkeeper/internal/client/storage"
	"github.com/dmitrijs2005/otpkeeper/internal/client/vault"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/logging"
	"github.com/dmitrijs2005/otpkeeper/internal/otp"
)

const syncEmail = "alice@example.com"

func account(id string, updatedAt int64) models.Account {
	return models.Account{
		ID:          id,
		Issuer:      "ACME",
		AccountName: id,
		Secret:      "JBSWY3DPEHPK3PXP",
		Algorithm:   otp.SHA1,
		Digits:      6,
		Period:      30,
		CreatedAt:   1,
		UpdatedAt:   updatedAt,
	}
}

type syncFixture struct {
	repos *storage.Repositories
	sess  *fakeSession
	store *fakeStore
	svc   *syncService
}

func newSyncFixture(t *testing.T, local ...models.Account) *syncFixture {
	t.Helper()
	f := &syncFixture{
		repos: setupRepos(t),
		sess:  signedIn(syncEmail, "pw"),
		store: &fakeStore{},
	}
	for _, a := range local {
		require.NoError(t, f.repos.Accounts.Upsert(context.Background(), a))
	}
	f.svc = NewSyncService(f.sess, f.repos.Accounts, f.repos.Metadata, f.store, logging.Nop()).(*syncService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

// remoteDoc encrypts accounts with the key of sess.
func remoteDoc(t *testing.T, sess *fakeSession, userID string, accounts ...models.Account) *models.VaultDocument {
	t.Helper()
	blob, err := vault.NewCipher(sess).EncryptAccounts(accounts, userID)
	require.NoError(t, err)
	return &models.VaultDocument{EncryptedData: blob, UserID: userID, UpdatedAt: fixedNow, Version: models.VaultVersion}
}

func TestSync_NotSignedIn(t *testing.T) {
	f := newSyncFixture(t)
	f.sess.Clear()

	_, err := f.svc.Sync(context.Background())
	require.ErrorIs(t, err, common.ErrKeyNotDerived)
	assert.Zero(t, f.store.Puts)
}

func TestSync_NoRemoteUploadsLocal(t *testing.T) {
	f := newSyncFixture(t, account("a", 10), account("b", 20))
	ctx := context.Background()

	res, err := f.svc.Sync(ctx)
	require.NoError(t, err)

	assert.False(t, res.RemoteFound)
	assert.Equal(t, 2, res.Local)
	assert.Equal(t, 0, res.Remote)
	assert.Equal(t, 2, res.Merged)
	assert.Equal(t, syncEmail, f.store.LastGet)

	require.Equal(t, 1, f.store.Puts)
	doc := f.store.Doc
	assert.Equal(t, syncEmail, doc.UserID)
	assert.Equal(t, models.VaultVersion, doc.Version)
	assert.Equal(t, fixedNow, doc.UpdatedAt)

	uploaded, err := vault.NewCipher(f.sess).DecryptAccounts(doc.EncryptedData)
	require.NoError(t, err)
	assert.Equal(t, []models.Account{account("a", 10), account("b", 20)}, uploaded)

	last, err := f.svc.LastSynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), last.UnixMilli())

	remoteAt, err := metadata.GetTime(ctx, f.repos.Metadata, metadata.KeyRemoteUpdatedAt)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), remoteAt.UnixMilli())
}

func TestSync_MergesRemote(t *testing.T) {
	f := newSyncFixture(t, account("a", 10), account("b", 20), account("c", 30))
	ctx := context.Background()

	newerB := account("b", 25)
	newerB.Issuer = "Remote"
	olderC := account("c", 5)
	olderC.Issuer = "Stale"
	f.store.Doc = remoteDoc(t, f.sess, syncEmail, newerB, olderC, account("d", 1))

	res, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, res.RemoteFound)
	assert.Equal(t, 3, res.Local)
	assert.Equal(t, 3, res.Remote)
	assert.Equal(t, 4, res.Merged)

	want := []models.Account{account("a", 10), newerB, account("c", 30), account("d", 1)}

	got, err := f.repos.Accounts.GetAll(ctx)
	require.NoError(t, err)
	models.SortForDisplay(want)
	assert.Equal(t, want, got)

	uploaded, err := vault.NewCipher(f.sess).DecryptAccounts(f.store.Doc.EncryptedData)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, uploaded)
}

func TestSync_Idempotent(t *testing.T) {
	f := newSyncFixture(t, account("a", 10))
	ctx := context.Background()
	f.store.Doc = remoteDoc(t, f.sess, syncEmail, account("b", 5))

	_, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	first, err := f.repos.Accounts.GetAll(ctx)
	require.NoError(t, err)

	res, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	second, err := f.repos.Accounts.GetAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, res.Merged)
}

func TestSync_RejectsRemote(t *testing.T) {
	other := signedIn(syncEmail, "another password")

	tests := []struct {
		name string
		doc  func(t *testing.T, f *syncFixture) *models.VaultDocument
		err  error
	}{
		{
			name: "foreign user",
			doc: func(t *testing.T, f *syncFixture) *models.VaultDocument {
				return remoteDoc(t, f.sess, "mallory@example.com", account("x", 1))
			},
			err: common.ErrorUnauthorized,
		},
		{
			name: "old document version",
			doc: func(t *testing.T, f *syncFixture) *models.VaultDocument {
				d := remoteDoc(t, f.sess, syncEmail, account("x", 1))
				d.Version = 1
				return d
			},
			err: common.ErrIncompatibleVersion,
		},
		{
			name: "wrong key",
			doc: func(t *testing.T, f *syncFixture) *models.VaultDocument {
				return remoteDoc(t, other, syncEmail, account("x", 1))
			},
			err: common.ErrDecryptionFailed,
		},
		{
			name: "garbage blob",
			doc: func(t *testing.T, f *syncFixture) *models.VaultDocument {
				d := remoteDoc(t, f.sess, syncEmail)
				d.EncryptedData = "not base64!"
				return d
			},
			err: common.ErrDecryptionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSyncFixture(t, account("a", 10))
			f.store.Doc = tt.doc(t, f)

			_, err := f.svc.Sync(context.Background())
			require.ErrorIs(t, err, tt.err)
			assert.Zero(t, f.store.Puts)

			got, err := f.repos.Accounts.GetAll(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []models.Account{account("a", 10)}, got)
		})
	}
}

func TestSync_StoreErrors(t *testing.T) {
	ctx := context.Background()

	f := newSyncFixture(t, account("a", 10))
	f.store.GetErr = errors.New("connection refused")
	_, err := f.svc.Sync(ctx)
	require.ErrorContains(t, err, "download vault")
	assert.Zero(t, f.store.Puts)

	f = newSyncFixture(t, account("a", 10))
	f.store.PutErr = errors.New("quota exceeded")
	_, err = f.svc.Sync(ctx)
	require.ErrorContains(t, err, "upload vault")

	last, err := f.svc.LastSynced(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}

func TestSync_DropsRemoteAccountsWithoutID(t *testing.T) {
	f := newSyncFixture(t)
	f.store.Doc = remoteDoc(t, f.sess, syncEmail, account("", 1), account("a", 2))

	res, err := f.svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remote)
	assert.Equal(t, 1, res.Merged)
}
