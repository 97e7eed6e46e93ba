package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"partnershipintake/internal/domain"
)

// Config holds the redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

type redisAPI interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLimiter is a fixed-window limiter keyed on ratelimit:{action}:{identifier}.
type RedisLimiter struct {
	client redisAPI
	now    func() time.Time
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisLimiter returns a domain.RateLimiter backed by redis counters.
func NewRedisLimiter(client *redis.Client) domain.RateLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

func key(identifier, action string) string {
	return "ratelimit:" + action + ":" + identifier
}

func (l *RedisLimiter) Check(ctx context.Context, identifier, action string, maxAttempts int, window time.Duration) (*domain.RateLimitResult, error) {
	k := key(identifier, action)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return nil, fmt.Errorf("incr %s: %w", k, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, window).Err(); err != nil {
			return nil, fmt.Errorf("expire %s: %w", k, err)
		}
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return nil, fmt.Errorf("ttl %s: %w", k, err)
	}
	// A key left without expiry would block the identifier forever.
	if ttl < 0 {
		if err := l.client.Expire(ctx, k, window).Err(); err != nil {
			return nil, fmt.Errorf("expire %s: %w", k, err)
		}
		ttl = window
	}
	resetAt := l.now().Add(ttl)

	if count > int64(maxAttempts) {
		return &domain.RateLimitResult{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}
	return &domain.RateLimitResult{
		Allowed:   true,
		Remaining: maxAttempts - int(count),
		ResetAt:   resetAt,
	}, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, identifier, action string) error {
	k := key(identifier, action)
	if err := l.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("del %s: %w", k, err)
	}
	return nil
}
