package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// KV is the storage capability the engine runs against: scalar values,
// ordered lists and unordered sets, all addressed by composed string keys.
// Implementations must make each single call atomic; cross-call atomicity
// is provided by the per-game serialization in the game package.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error

	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string) ([]string, error)
	LSet(ctx context.Context, key string, index int, value string) error
	LLen(ctx context.Context, key string) (int, error)

	SAdd(ctx context.Context, key, member string) error
	SCard(ctx context.Context, key string) (int, error)
}
