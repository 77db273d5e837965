package cacheinfra

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-auction-query/cache"
	"github.com/viccon/sturdyc"
)

// entry is what the sturdyc client holds for every key. sturdyc only knows a
// global TTL, so per entry deadlines are enforced lazily on read.
//
// Sliding reads move expiresAt in place and never write the entry back.
type entry struct {
	data     []byte
	deadline time.Time
	sliding  time.Duration
	// expiresAt holds unix nanoseconds, zero when the entry never expires.
	expiresAt atomic.Int64
}

func newEntry(data []byte, deadline time.Time, sliding time.Duration, expiresAt time.Time) *entry {
	e := &entry{data: data, deadline: deadline, sliding: sliding}
	e.touch(expiresAt)
	return e
}

func (e *entry) touch(expiresAt time.Time) {
	if expiresAt.IsZero() {
		e.expiresAt.Store(0)
		return
	}
	e.expiresAt.Store(expiresAt.UnixNano())
}

func (e *entry) expired(now time.Time) bool {
	at := e.expiresAt.Load()
	return at != 0 && now.UnixNano() >= at
}

// SturdycOption configures a SturdycStore.
type SturdycOption func(*SturdycStore)

// WithClock overrides the time source used for per entry expiration.
func WithClock(now func() time.Time) SturdycOption {
	return func(s *SturdycStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreMetrics reports every store command to collector.
func WithStoreMetrics(collector cache.MetricsCollector) SturdycOption {
	return func(s *SturdycStore) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// SturdycStore is an in-process cache.Store backed by a sturdyc client.
type SturdycStore struct {
	client  *sturdyc.Client[*entry]
	now     func() time.Time
	metrics cache.MetricsCollector
}

// NewSturdycStore validates cfg and initializes the sturdyc client.
//
// Version compatibility note: This implementation assumes sturdyc v1.x API.
func NewSturdycStore(cfg Config, opts ...SturdycOption) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[*entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	s := &SturdycStore{
		client:  client,
		now:     time.Now,
		metrics: cache.NoOpCollector{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get implements cache.Store. Expired entries are dropped and reported as a
// miss; sliding entries get their expiry pushed forward.
func (s *SturdycStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := s.client.Get(key)
	s.metrics.StoreCommand("get", nil)
	if !ok {
		return nil, cache.ErrCacheMiss
	}

	now := s.now()
	if e.expired(now) {
		s.client.Delete(key)
		return nil, cache.ErrCacheMiss
	}

	if e.sliding > 0 {
		e.touch(cache.Options{SlidingExpiration: e.sliding}.ExpiresAt(now, e.deadline))
	}

	return e.data, nil
}

// Set implements cache.Store.
func (s *SturdycStore) Set(ctx context.Context, key string, value []byte, opts cache.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.now()
	deadline := opts.Deadline(now)
	e := newEntry(append([]byte(nil), value...), deadline, opts.SlidingExpiration, opts.ExpiresAt(now, deadline))
	if e.expired(now) {
		s.client.Delete(key)
		return nil
	}

	s.client.Set(key, e)
	s.metrics.StoreCommand("set", nil)
	return nil
}

// Delete implements cache.Store.
func (s *SturdycStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.client.Delete(key)
	s.metrics.StoreCommand("delete", nil)
	return nil
}

// DeleteByPrefix removes all entries whose key starts with prefix.
func (s *SturdycStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}

	s.metrics.StoreCommand("delete_prefix", nil)
	return nil
}

// Len returns the number of entries held, expired or not.
func (s *SturdycStore) Len() int {
	return len(s.client.ScanKeys())
}
