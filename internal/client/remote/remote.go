// Package remote defines where encrypted vault documents are kept between
// devices, and builds the configured store.
//
// Stores move models.VaultDocument values around; they never see plaintext
// accounts or keys.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/otpkeeper/internal/client/config"
	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/client/remote/mongostore"
	"github.com/dmitrijs2005/otpkeeper/internal/client/remote/pgstore"
	"github.com/dmitrijs2005/otpkeeper/internal/client/remote/s3store"
)

// ErrDisabled is returned by every method of the store used when no remote
// is configured.
var ErrDisabled = errors.New("remote vault store is not configured")

// Store keeps one vault document per user.
type Store interface {
	// Get returns common.ErrorNotFound when the user has no document yet.
	Get(ctx context.Context, userID string) (*models.VaultDocument, error)
	// Put creates or replaces the user's document.
	Put(ctx context.Context, doc models.VaultDocument) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type disabled struct{}

func (disabled) Get(context.Context, string) (*models.VaultDocument, error) { return nil, ErrDisabled }
func (disabled) Put(context.Context, models.VaultDocument) error            { return ErrDisabled }
func (disabled) Ping(context.Context) error                                 { return ErrDisabled }
func (disabled) Close(context.Context) error                                { return nil }

// Disabled returns a Store that refuses every operation.
func Disabled() Store {
	return disabled{}
}

// New builds the store selected by cfg.RemoteKind. Connecting happens here,
// bounded by cfg.RemoteTimeout.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RemoteTimeout)
		defer cancel()
	}

	switch cfg.RemoteKind {
	case "", config.RemoteNone:
		return Disabled(), nil

	case config.RemoteS3:
		store, err := s3store.New(ctx, s3store.Config{
			Bucket:         cfg.S3.Bucket,
			Region:         cfg.S3.Region,
			Endpoint:       cfg.S3.Endpoint,
			AccessKeyID:    cfg.S3.AccessKeyID,
			SecretKey:      cfg.S3.SecretKey,
			Prefix:         cfg.S3.Prefix,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.RemoteMongo:
		store, err := mongostore.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.RemotePostgres:
		store, err := pgstore.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("%w: unknown remote %q", config.ErrInvalidConfig, cfg.RemoteKind)
}
