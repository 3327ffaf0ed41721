package cache

import (
	"context"
	"time"
)

// BytesCache is the minimal cache surface the services need. Both the redis
// implementation and test fakes satisfy it.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
