package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultLockTTL       = 30 * time.Second
	defaultRetryInterval = 100 * time.Millisecond
	snapshotLockPrefix   = "revenue:snapshot:"
)

// RedisSnapshotLocker implements revenue.SnapshotLocker with redislock so
// every replica of the service serializes on the same key.
type RedisSnapshotLocker struct {
	locker    *redislock.Client
	ttl       time.Duration
	retry     time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisSnapshotLocker creates a locker over an existing Redis client
func NewRedisSnapshotLocker(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisSnapshotLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSnapshotLocker{
		locker:    redislock.New(client),
		ttl:       ttl,
		retry:     defaultRetryInterval,
		keyPrefix: snapshotLockPrefix,
		logger:    logger,
	}
}

// Acquire obtains the lock for key, retrying until ctx is done.
func (l *RedisSnapshotLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := l.locker.Obtain(ctx, l.keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: snapshot %s is being recalculated", shared.ErrConcurrencyConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain snapshot lock: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be cancelled; release on a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.logger.Warn("failed to release snapshot lock", zap.String("key", key), zap.Error(err))
			}
		})
	}, nil
}
