package ledger

import (
	"context"
	"time"
)

// KeyLocker is the advisory per-key lock the usecase takes around each
// mutation. Satisfied by pkg/cache.RedisClient.
type KeyLocker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
