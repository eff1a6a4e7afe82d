// Package metadata is a key/value repository over the client's SQLite
// "metadata" table. The session store keeps its durable record here.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

var _ Repository = (*SQLiteRepository)(nil)
