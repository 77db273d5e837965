package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-auction-query/cache"
	"github.com/redis/go-redis/v9"
)

// Hash fields of a stored entry. Expirations are kept in milliseconds, -1
// when unset.
const (
	absoluteField = "absexp"
	slidingField  = "sldexp"
	dataField     = "data"

	notPresent = -1
)

// NewRedisClient builds a go-redis client from cfg.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	}), nil
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces every key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisMetrics reports every redis command to collector.
func WithRedisMetrics(collector cache.MetricsCollector) RedisOption {
	return func(s *RedisStore) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// WithRedisClock overrides the time source used to compute expirations.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

// RedisStore is a network cache.Store. Every entry is a hash holding the
// payload next to its absolute and sliding expirations, and the key TTL is
// kept at whichever of the two fires first.
type RedisStore struct {
	rc      redis.UniversalClient
	prefix  string
	now     func() time.Time
	metrics cache.MetricsCollector
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rc redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rc:      rc,
		now:     time.Now,
		metrics: cache.NoOpCollector{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

// Get implements cache.Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.rc == nil {
		err := errors.New("redis client is nil, cannot get cache")
		s.metrics.StoreCommand("hmget", err)
		return nil, err
	}

	full := s.key(key)
	values, err := s.rc.HMGet(ctx, full, absoluteField, slidingField, dataField).Result()
	s.metrics.StoreCommand("hmget", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	if len(values) != 3 || values[2] == nil {
		return nil, cache.ErrCacheMiss
	}

	data, ok := values[2].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", values[2])
	}

	absolute := parseMillis(values[0])
	sliding := parseMillis(values[1])
	if sliding != notPresent {
		if err := s.refresh(ctx, full, absolute, sliding); err != nil {
			return nil, err
		}
	}

	return []byte(data), nil
}

// refresh pushes the TTL of a sliding entry forward without passing its
// absolute deadline.
func (s *RedisStore) refresh(ctx context.Context, key string, absolute, sliding int64) error {
	now := s.now()

	var deadline time.Time
	if absolute != notPresent {
		deadline = time.UnixMilli(absolute)
	}
	expiresAt := cache.Options{SlidingExpiration: time.Duration(sliding) * time.Millisecond}.ExpiresAt(now, deadline)

	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		err := s.rc.Del(ctx, key).Err()
		s.metrics.StoreCommand("del", err)
		return cache.ErrCacheMiss
	}

	err := s.rc.PExpire(ctx, key, ttl).Err()
	s.metrics.StoreCommand("pexpire", err)
	if err != nil {
		return fmt.Errorf("failed to refresh cache: %w", err)
	}
	return nil
}

// Set implements cache.Store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, opts cache.Options) error {
	if s.rc == nil {
		err := errors.New("redis client is nil, cannot set cache")
		s.metrics.StoreCommand("hset", err)
		return err
	}

	now := s.now()
	deadline := opts.Deadline(now)
	expiresAt := opts.ExpiresAt(now, deadline)

	absolute := int64(notPresent)
	if !deadline.IsZero() {
		absolute = deadline.UnixMilli()
	}
	sliding := int64(notPresent)
	if opts.SlidingExpiration > 0 {
		sliding = opts.SlidingExpiration.Milliseconds()
	}

	full := s.key(key)
	if !expiresAt.IsZero() && !expiresAt.After(now) {
		return s.Delete(ctx, key)
	}

	_, err := s.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, full, absoluteField, absolute, slidingField, sliding, dataField, value)
		if !expiresAt.IsZero() {
			pipe.PExpire(ctx, full, expiresAt.Sub(now))
		} else {
			pipe.Persist(ctx, full)
		}
		return nil
	})
	s.metrics.StoreCommand("hset", err)
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete implements cache.Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s.rc == nil {
		err := errors.New("redis client is nil, cannot delete cache")
		s.metrics.StoreCommand("del", err)
		return err
	}

	err := s.rc.Del(ctx, s.key(key)).Err()
	s.metrics.StoreCommand("del", err)
	if err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// DeleteByPrefix removes every key starting with prefix using SCAN.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	if s.rc == nil {
		err := errors.New("redis client is nil, cannot delete cache")
		s.metrics.StoreCommand("scan", err)
		return err
	}

	pattern := globEscaper.Replace(s.key(prefix)) + "*"
	var cursor uint64
	for {
		keys, next, err := s.rc.Scan(ctx, cursor, pattern, 100).Result()
		s.metrics.StoreCommand("scan", err)
		if err != nil {
			return fmt.Errorf("failed to scan cache: %w", err)
		}

		if len(keys) > 0 {
			err := s.rc.Del(ctx, keys...).Err()
			s.metrics.StoreCommand("del", err)
			if err != nil {
				return fmt.Errorf("failed to delete cache: %w", err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

func parseMillis(v any) int64 {
	str, ok := v.(string)
	if !ok {
		return notPresent
	}
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return notPresent
	}
	return n
}
