// Package metadata keeps small client-side key/value facts: the signed-in
// email and sync timestamps. Keys, passwords and secrets never go here.
package metadata

import (
	"context"
)

const (
	KeyEmail           = "email"
	KeyLastSyncedAt    = "last_synced_at"
	KeyRemoteUpdatedAt = "remote_updated_at"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes every pair or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
