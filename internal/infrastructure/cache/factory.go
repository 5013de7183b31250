package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SnapshotLockerFactory creates snapshot lockers based on configuration
type SnapshotLockerFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
	dial                  func(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error)
}

// SnapshotLockerFactoryOption is a functional option for configuring the factory
type SnapshotLockerFactoryOption func(*SnapshotLockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotLockerFactoryOption {
	return func(f *SnapshotLockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-process lock when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) SnapshotLockerFactoryOption {
	return func(f *SnapshotLockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotLockerFactory creates a new factory
func NewSnapshotLockerFactory(cfg config.RedisConfig, ttl time.Duration, opts ...SnapshotLockerFactoryOption) *SnapshotLockerFactory {
	f := &SnapshotLockerFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		dial:                  dialRedis,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLocker returns a Redis-backed locker when Redis is enabled and
// reachable, and an in-memory one otherwise.
func (f *SnapshotLockerFactory) CreateLocker(ctx context.Context) (revenue.SnapshotLocker, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory snapshot locker")
		return NewInMemorySnapshotLocker(), nil
	}

	client, err := f.dial(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis snapshot locker", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisSnapshotLocker(client, f.ttl, f.logger), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for snapshot locking but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory snapshot locker. "+
		"Recalculations are only serialized within this instance.",
		zap.Error(err),
	)
	return NewInMemorySnapshotLocker(), nil
}

func dialRedis(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
