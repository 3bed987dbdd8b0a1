package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/otpkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/dbx"
	"github.com/dmitrijs2005/otpkeeper/internal/otp"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	require.NoError(t, err)
	_, err = p.Up(context.Background())
	require.NoError(t, err)
	return db
}

func account(id, issuer string, updatedAt int64) models.Account {
	return models.Account{
		ID: id, Issuer: issuer, AccountName: "user-" + id, Secret: "JBSWY3DPEHPK3PXP",
		Algorithm: otp.SHA1, Digits: 6, Period: 30, CreatedAt: 1, UpdatedAt: updatedAt,
	}
}

func TestUpsertAndGetByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := account("1", "GitHub", 10)
	a.Algorithm = otp.SHA512
	a.Digits = 8
	a.Period = 60
	require.NoError(t, r.Upsert(ctx, a))

	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	a.Issuer = "GitLab"
	a.UpdatedAt = 20
	require.NoError(t, r.Upsert(ctx, a))

	got, err = r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetAll_OrderedForDisplay(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	empty, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, r.Upsert(ctx, account("1", "zeta", 1)))
	require.NoError(t, r.Upsert(ctx, account("2", "Alpha", 1)))
	require.NoError(t, r.Upsert(ctx, account("3", "beta", 1)))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2", all[0].ID)
	assert.Equal(t, "3", all[1].ID)
	assert.Equal(t, "1", all[2].ID)
}

func TestDeleteByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, account("1", "a", 1)))
	require.NoError(t, r.DeleteByID(ctx, "1"))

	_, err := r.GetByID(ctx, "1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, r.DeleteByID(ctx, "1"), common.ErrorNotFound)
}

func TestDeleteAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, account("1", "a", 1)))
	require.NoError(t, r.Upsert(ctx, account("2", "b", 1)))
	require.NoError(t, r.DeleteAll(ctx))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReplaceAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, account("old", "a", 1)))

	next := []models.Account{account("1", "a", 5), account("2", "b", 6)}
	require.NoError(t, r.ReplaceAll(ctx, next))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, all)
}

func TestReplaceAll_RollsBackOnError(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	keep := account("keep", "a", 1)
	require.NoError(t, r.Upsert(ctx, keep))

	_, err := db.Exec(`CREATE TRIGGER reject_bad BEFORE INSERT ON accounts
		WHEN NEW.id = 'bad' BEGIN SELECT RAISE(ABORT, 'bad row'); END;`)
	require.NoError(t, err)

	err = r.ReplaceAll(ctx, []models.Account{account("1", "b", 1), account("bad", "c", 1)})
	assert.Error(t, err)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Account{keep}, all)
}

func TestReplaceAll_InsideCallerTx(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	require.NoError(t, NewSQLiteRepository(db).Upsert(ctx, account("keep", "a", 1)))

	boom := errors.New("boom")
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := NewSQLiteRepository(tx).ReplaceAll(ctx, []models.Account{account("1", "b", 1)}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := NewSQLiteRepository(db).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "keep", all[0].ID)
}
