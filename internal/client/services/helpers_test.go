package services

import (
	"context"
	"crypto/sha256"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/client/storage"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

func setupRepos(t *testing.T) *storage.Repositories {
	t.Helper()
	repos, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

// fakeSession derives a key with one SHA-256 round so tests stay fast.
type fakeSession struct {
	mu    sync.Mutex
	email string
	key   []byte
}

func (f *fakeSession) Derive(password []byte, email string) {
	sum := sha256.Sum256(append([]byte(email+":"), password...))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email, f.key = email, sum[:]
}

func (f *fakeSession) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email, f.key = "", nil
}

func (f *fakeSession) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key != nil
}

func (f *fakeSession) Key() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.key == nil {
		return nil, common.ErrKeyNotDerived
	}
	return append([]byte(nil), f.key...), nil
}

func (f *fakeSession) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func signedIn(email, password string) *fakeSession {
	s := &fakeSession{}
	s.Derive([]byte(password), email)
	return s
}

// fakeStore keeps at most one document in memory.
type fakeStore struct {
	Doc    *models.VaultDocument
	GetErr error
	PutErr error

	Puts    int
	LastGet string
}

func (f *fakeStore) Get(ctx context.Context, userID string) (*models.VaultDocument, error) {
	f.LastGet = userID
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	if f.Doc == nil {
		return nil, common.ErrorNotFound
	}
	d := *f.Doc
	return &d, nil
}

func (f *fakeStore) Put(ctx context.Context, doc models.VaultDocument) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	f.Puts++
	f.Doc = &doc
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error  { return nil }
func (f *fakeStore) Close(ctx context.Context) error { return nil }
