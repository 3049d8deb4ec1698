package cache

import (
	"context"
	"time"
)

// Cache fronts the catalog's document reads. A miss is (false, nil), not an
// error; callers fall through to the backing store.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	ProductKeyPrefix = "product"
	RoleKeyPrefix    = "role"
)
