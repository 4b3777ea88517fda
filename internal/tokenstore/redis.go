package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis connects using a URL such as redis://:pass@host:6379/0.
// Keys live under prefix (default "projecteye:tokens:"); ttl <= 0 means no expiry.
func NewRedis(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*Redis, error) {
	if prefix == "" {
		prefix = "projecteye:tokens:"
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *Redis) key(k string) string { return s.prefix + k }

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Redis) Close() error { return s.rdb.Close() }
