package accounts

import (
	"context"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
)

// Repository stores the local account collection.
type Repository interface {
	// GetAll returns every account ordered by issuer and account name.
	GetAll(ctx context.Context) ([]models.Account, error)

	// GetByID returns common.ErrorNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (models.Account, error)

	// Upsert inserts an account or replaces the stored one with the same id.
	Upsert(ctx context.Context, a models.Account) error

	// DeleteByID returns common.ErrorNotFound when nothing was deleted.
	DeleteByID(ctx context.Context, id string) error

	DeleteAll(ctx context.Context) error

	// ReplaceAll swaps the whole collection in one transaction.
	ReplaceAll(ctx context.Context, accounts []models.Account) error
}
