package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/votecnp/election-api/internal/config"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Counter returns the integer stored at key, zero when absent.
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

// New connects to Redis, or returns a cache that stores nothing when no
// address is configured.
func New(conf *config.RedisConfig) (Cache, error) {
	if conf == nil || conf.Addr == "" {
		zap.L().Info("redis address not configured, statistics are not cached")
		return Nop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         conf.Addr,
		Password:     conf.Password,
		DB:           conf.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis -> %w", err)
	}

	zap.L().Info("redis connection established", zap.String("addr", conf.Addr))

	return NewRedisCache(client), nil
}

type Nop struct{}

func (Nop) Get(context.Context, string, any) error                { return ErrCacheMiss }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error               { return nil }
func (Nop) Counter(context.Context, string) (int64, error)        { return 0, nil }
func (Nop) Incr(context.Context, string) (int64, error)           { return 0, nil }
func (Nop) Close() error                                          { return nil }
