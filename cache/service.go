package cache

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a Store when the key holds no live entry.
var ErrCacheMiss = errors.New("cache: miss")

// Store is the byte level key/value collaborator behind the Service.
// Implementations must honour the expiration policy carried by Options and
// must abort in-flight I/O when ctx is cancelled.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, opts Options) error
	Delete(ctx context.Context, key string) error
}

// FetchFn is the function signature GetOrFetch expects when loading from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Service is the cache-aside front for a Store. It holds no mutable state of
// its own, so a single instance can be shared by concurrent requests.
type Service struct {
	store   Store
	codec   Codec
	logger  *zap.Logger
	metrics MetricsCollector
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCodec sets the default codec used when a call does not override it.
func WithCodec(codec Codec) ServiceOption {
	return func(s *Service) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithLogger sets the logger used to report degraded reads and failed writes.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the collector notified on every lookup.
func WithMetrics(collector MetricsCollector) ServiceOption {
	return func(s *Service) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// NewService creates a Service over store. JSON is the default codec.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		codec:   JSONCodec{},
		logger:  zap.NewNop(),
		metrics: NoOpCollector{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Remove invalidates a single entry.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("cache: remove %q: %w", key, err)
	}
	return nil
}

// PrefixDeleter is implemented by stores able to drop every key sharing a prefix.
type PrefixDeleter interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ErrPrefixUnsupported is returned by RemovePrefix when the store is not a PrefixDeleter.
var ErrPrefixUnsupported = errors.New("cache: store cannot delete by prefix")

// RemovePrefix invalidates every entry whose key starts with prefix.
func (s *Service) RemovePrefix(ctx context.Context, prefix string) error {
	deleter, ok := s.store.(PrefixDeleter)
	if !ok {
		return ErrPrefixUnsupported
	}
	if err := deleter.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("cache: remove prefix %q: %w", prefix, err)
	}
	return nil
}

// InvalidateKeys removes every key in keys, continuing past individual failures.
// The first failure is returned after all keys have been attempted.
func (s *Service) InvalidateKeys(ctx context.Context, keys []string) error {
	var first error
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil {
			if isCancellation(err) {
				return err
			}
			s.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// CallOption adjusts a single Get, Set or GetOrFetch call.
type CallOption func(*callConfig)

type callConfig struct {
	codec Codec
}

// WithCallCodec overrides the service codec for one call. Stored shapes whose
// invariants do not survive field by field encoding (paged results, for one)
// supply their own codec here.
func WithCallCodec(codec Codec) CallOption {
	return func(c *callConfig) {
		if codec != nil {
			c.codec = codec
		}
	}
}

func (s *Service) resolve(opts []CallOption) callConfig {
	cfg := callConfig{codec: s.codec}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Get looks key up and decodes it into T. The boolean reports whether a value
// was found. Store and decode failures degrade to a miss; the returned error
// is non-nil only when ctx was cancelled.
func Get[T any](ctx context.Context, s *Service, key string, opts ...CallOption) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	cfg := s.resolve(opts)

	data, err := s.store.Get(ctx, key)
	if err != nil {
		if isCancellation(err) {
			return zero, false, err
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Debug("cache read degraded to miss", zap.String("key", key), zap.Error(err))
		}
		s.metrics.Lookup(false)
		return zero, false, nil
	}

	var value T
	if err := cfg.codec.Unmarshal(data, &value); err != nil {
		s.logger.Debug("cache entry could not be decoded", zap.String("key", key), zap.Error(err))
		s.metrics.Lookup(false)
		return zero, false, nil
	}

	s.metrics.Lookup(true)
	return value, true, nil
}

// Set encodes value and stores it under key with the given expiration policy.
// Failures are logged before being returned.
func Set[T any](ctx context.Context, s *Service, key string, value T, entry Options, opts ...CallOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := s.resolve(opts)

	data, err := cfg.codec.Marshal(value)
	if err != nil {
		s.logger.Warn("cache entry could not be encoded", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}

	if err := s.store.Set(ctx, key, data, entry); err != nil {
		if isCancellation(err) {
			return err
		}
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache: store %q: %w", key, err)
	}
	return nil
}

// GetOrFetch serves key from the cache, or calls fetch on a miss and writes the
// result back before returning it. Write-back failures never fail the call;
// fetch errors are returned unchanged. Concurrent misses may both fetch and
// both write, last write wins.
func GetOrFetch[T any](ctx context.Context, s *Service, key string, entry Options, fetch FetchFn[T], opts ...CallOption) (T, error) {
	var zero T

	if cached, ok, err := Get[T](ctx, s, key, opts...); err != nil {
		return zero, err
	} else if ok {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if err := Set(ctx, s, key, value, entry, opts...); err != nil && isCancellation(err) {
		return zero, err
	}
	return value, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
