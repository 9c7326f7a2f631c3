package ports

import (
	"context"
	"time"
)

// SyncLock keeps two sync runs for the same network from overlapping across processes.
type SyncLock interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}
