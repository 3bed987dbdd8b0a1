package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/dbx"
	"github.com/dmitrijs2005/otpkeeper/internal/otp"
)

const accountColumns = `id, issuer, account_name, secret, algorithm, digits, period, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (models.Account, error) {
	var (
		a   models.Account
		alg string
	)
	err := s.Scan(&a.ID, &a.Issuer, &a.AccountName, &a.Secret, &alg,
		&a.Digits, &a.Period, &a.CreatedAt, &a.UpdatedAt)
	a.Algorithm = otp.Algorithm(alg)
	return a, err
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		ORDER BY issuer COLLATE NOCASE, account_name COLLATE NOCASE, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	result := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, common.ErrorNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, a models.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET issuer = excluded.issuer,
				account_name = excluded.account_name,
				secret = excluded.secret,
				algorithm = excluded.algorithm,
				digits = excluded.digits,
				period = excluded.period,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Issuer, a.AccountName, a.Secret,
		string(a.Algorithm), a.Digits, a.Period, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}
	return nil
}

// ReplaceAll opens its own transaction when bound to a *sql.DB and joins
// the caller's otherwise.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, accounts []models.Account) error {
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).replaceAll(ctx, accounts)
	})
}

func (r *SQLiteRepository) replaceAll(ctx context.Context, accounts []models.Account) error {
	if err := r.DeleteAll(ctx); err != nil {
		return err
	}
	for _, a := range accounts {
		if err := r.Upsert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
