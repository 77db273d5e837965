package querycache

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-auction-query/cache"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// Registry remembers which keys were produced and under which tags, so
// entries can be dropped when the underlying data changes.
//
// A key is forgotten once its entry can no longer be live in the store.
type Registry struct {
	keys   *xsync.MapOf[string, tracked]
	cache  *cache.Service
	logger *zap.Logger
	now    func() time.Time
	maxAge time.Duration
	tracks atomic.Uint64
}

type tracked struct {
	tags []string
	// expiresAt is zero for keys that never expire.
	expiresAt time.Time
}

func (t tracked) expired(now time.Time) bool {
	return !t.expiresAt.IsZero() && !now.Before(t.expiresAt)
}

// pruneEvery is how many Track calls may pass between sweeps of expired keys.
const pruneEvery = 1024

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock replaces time.Now when computing key lifetimes.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithMaxAge bounds how long a key tracked without a deadline is kept. It
// should match the longest lifetime the store grants an entry.
func WithMaxAge(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.maxAge = d
		}
	}
}

// NewRegistry returns an empty registry invalidating through svc.
func NewRegistry(svc *cache.Service, logger *zap.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		keys:   xsync.NewMapOf[string, tracked](),
		cache:  svc,
		logger: logger.Named("querycache"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Track registers key with tags, merging with tags already known. The key is
// kept for the registry max age, or forever when none is set.
func (r *Registry) Track(key string, tags ...string) {
	r.TrackUntil(key, time.Time{}, tags...)
}

// TrackUntil registers key with tags until expiresAt. A zero expiresAt falls
// back to the registry max age. Tracking a key again keeps the later expiry.
func (r *Registry) TrackUntil(key string, expiresAt time.Time, tags ...string) {
	now := r.now()
	if expiresAt.IsZero() && r.maxAge > 0 {
		expiresAt = now.Add(r.maxAge)
	}

	r.keys.Compute(key, func(existing tracked, loaded bool) (tracked, bool) {
		next := tracked{expiresAt: expiresAt}
		if loaded && !existing.expired(now) {
			next.tags = dedupeStrings(append(slices.Clone(existing.tags), tags...))
			if existing.expiresAt.IsZero() || (!expiresAt.IsZero() && existing.expiresAt.After(expiresAt)) {
				next.expiresAt = existing.expiresAt
			}
		} else {
			next.tags = dedupeStrings(slices.Clone(tags))
		}
		return next, false
	})

	if r.tracks.Add(1)%pruneEvery == 0 {
		r.Prune()
	}
}

// Prune forgets every expired key and returns how many were dropped.
func (r *Registry) Prune() int {
	now := r.now()
	pruned := 0
	r.keys.Range(func(key string, t tracked) bool {
		if t.expired(now) {
			r.forget(key, now)
			pruned++
		}
		return true
	})
	if pruned > 0 {
		r.logger.Debug("expired cache keys pruned", zap.Int("count", pruned))
	}
	return pruned
}

// Len returns the number of live tracked keys.
func (r *Registry) Len() int {
	return len(r.Keys())
}

// forget deletes key unless it was tracked again after expiring.
func (r *Registry) forget(key string, now time.Time) {
	r.keys.Compute(key, func(existing tracked, loaded bool) (tracked, bool) {
		return existing, !loaded || existing.expired(now)
	})
}

// Keys returns every tracked key in lexical order.
func (r *Registry) Keys() []string {
	return r.collect(func(string, []string) bool { return true })
}

// Tags returns the tags tracked for key.
func (r *Registry) Tags(key string) []string {
	t, ok := r.keys.Load(key)
	if !ok || t.expired(r.now()) {
		return nil
	}
	return slices.Clone(t.tags)
}

// InvalidatePrefix removes every tracked key starting with prefix, then asks
// the store to drop untracked ones when it supports prefix deletion.
func (r *Registry) InvalidatePrefix(ctx context.Context, prefix string) error {
	keys := r.collect(func(key string, _ []string) bool {
		return strings.HasPrefix(key, prefix)
	})

	if err := r.remove(ctx, keys); err != nil {
		return err
	}

	if err := r.cache.RemovePrefix(ctx, prefix); err != nil && !errors.Is(err, cache.ErrPrefixUnsupported) {
		return err
	}
	return nil
}

// InvalidateTags removes every tracked key carrying at least one of tags.
func (r *Registry) InvalidateTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	keys := r.collect(func(_ string, keyTags []string) bool {
		for _, tag := range tags {
			if slices.Contains(keyTags, tag) {
				return true
			}
		}
		return false
	})
	return r.remove(ctx, keys)
}

// collect returns the live keys matching match. Expired keys met on the way
// are forgotten.
func (r *Registry) collect(match func(key string, tags []string) bool) []string {
	now := r.now()
	var keys []string
	r.keys.Range(func(key string, t tracked) bool {
		if t.expired(now) {
			r.forget(key, now)
			return true
		}
		if match(key, t.tags) {
			keys = append(keys, key)
		}
		return true
	})
	sort.Strings(keys)
	return keys
}

func (r *Registry) remove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	err := r.cache.InvalidateKeys(ctx, keys)
	for _, key := range keys {
		r.keys.Delete(key)
	}

	r.logger.Debug("cache keys invalidated", zap.Int("count", len(keys)), zap.Error(err))
	return err
}
