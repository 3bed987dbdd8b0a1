package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

const (
	selectQuery = `(?s)^SELECT\s+encrypted_data,\s*user_id,\s*updated_at,\s*version\s+FROM\s+vault_documents\s+WHERE\s+user_id\s*=\s*\$1$`
	upsertQuery = `(?s)^INSERT\s+INTO\s+vault_documents\s*\(user_id,\s*encrypted_data,\s*updated_at,\s*version\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*ON\s+CONFLICT\s*\(user_id\)\s*DO\s+UPDATE`
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func sampleDoc() models.VaultDocument {
	return models.VaultDocument{
		EncryptedData: "YmxvYg==",
		UserID:        "alice@example.com",
		UpdatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Version:       2,
	}
}

func TestGet_Found(t *testing.T) {
	s, mock := newStoreWithMock(t)
	d := sampleDoc()

	rows := sqlmock.NewRows([]string{"encrypted_data", "user_id", "updated_at", "version"}).
		AddRow(d.EncryptedData, d.UserID, d.UpdatedAt, d.Version)
	mock.ExpectQuery(selectQuery).WithArgs("alice@example.com").WillReturnRows(rows)

	got, err := s.Get(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, d, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectQuery).WithArgs("bob").WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectQuery).WithArgs("bob").WillReturnError(errors.New("db down"))

	_, err := s.Get(context.Background(), "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestPut_Upserts(t *testing.T) {
	s, mock := newStoreWithMock(t)
	d := sampleDoc()

	mock.ExpectExec(upsertQuery).
		WithArgs(d.UserID, d.EncryptedData, d.UpdatedAt, d.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Put(context.Background(), d))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPut_Errors(t *testing.T) {
	s, mock := newStoreWithMock(t)

	assert.Error(t, s.Put(context.Background(), models.VaultDocument{}))

	mock.ExpectExec(upsertQuery).WillReturnError(errors.New("constraint"))
	err := s.Put(context.Background(), sampleDoc())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint")
}

func TestPing(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	assert.Error(t, s.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Open(ctx, "postgres://user:pw@127.0.0.1:1/otpkeeper?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
