// Package pgstore keeps vault documents in a Postgres table, one row per
// user.
package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/dbx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db   *sql.DB
	exec dbx.DBTX
}

// Open connects through the pgx database/sql driver and pings the server.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return NewWithDB(db), nil
}

func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, exec: db}
}

// Migrate creates or upgrades the vault_documents table.
func (s *Store) Migrate(ctx context.Context) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, s.db, sub)
	if err != nil {
		return fmt.Errorf("pgstore: init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("pgstore: migrate: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID string) (*models.VaultDocument, error) {
	query :=
		`SELECT encrypted_data, user_id, updated_at, version FROM vault_documents
		 WHERE user_id = $1`

	doc := &models.VaultDocument{}
	err := s.exec.QueryRowContext(ctx, query, userID).
		Scan(&doc.EncryptedData, &doc.UserID, &doc.UpdatedAt, &doc.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (s *Store) Put(ctx context.Context, doc models.VaultDocument) error {
	if doc.UserID == "" {
		return errors.New("pgstore: document has no user id")
	}
	query :=
		`INSERT INTO vault_documents (user_id, encrypted_data, updated_at, version)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET encrypted_data = EXCLUDED.encrypted_data,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version`

	_, err := s.exec.ExecContext(ctx, query, doc.UserID, doc.EncryptedData, doc.UpdatedAt, doc.Version)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
