package querycache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-auction-query/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	options map[string]cache.Options
	deletes []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, options: map[string]cache.Options{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value []byte, opts cache.Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.options[key] = opts
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	delete(m.data, key)
	return nil
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type lookup struct {
	Owner string
	Page  int
}

// countingHandler tracks how often the source of truth is hit.
type countingHandler struct {
	mu    sync.Mutex
	calls []lookup
	err   error
}

func (h *countingHandler) handle(ctx context.Context, req lookup) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, req)
	if h.err != nil {
		return nil, h.err
	}
	return []string{fmt.Sprintf("%s-%d", req.Owner, req.Page)}, nil
}

func (h *countingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

var lookupKeys = cache.KeyBuilderFunc[lookup](func(r lookup) string {
	return cache.NewKey("user_items").String("u", r.Owner).Int("p", r.Page).Build()
})

func newCached(t *testing.T, policy Policy) (*Cached[lookup, []string], *countingHandler, *memoryStore, *Registry) {
	t.Helper()
	store := newMemoryStore()
	svc := cache.NewService(store)
	registry := NewRegistry(svc, nil)
	handler := &countingHandler{}
	return New("UserItems", handler.handle, svc, lookupKeys, registry, policy), handler, store, registry
}

func TestCached_ServesSecondCallFromCache(t *testing.T) {
	cached, handler, store, _ := newCached(t, Policy{TTL: time.Minute})
	ctx := context.Background()

	first, err := cached.Handle(ctx, lookup{Owner: "ann", Page: 1})
	require.NoError(t, err)
	second, err := cached.Handle(ctx, lookup{Owner: "ann", Page: 1})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, handler.count())
	assert.Equal(t, time.Minute, store.options["user_items::u=ann::p=1"].AbsoluteExpirationRelativeToNow)

	_, err = cached.Handle(ctx, lookup{Owner: "ann", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, handler.count())
}

func TestCached_PolicyWithSliding(t *testing.T) {
	cached, _, store, _ := newCached(t, Policy{Sliding: 30 * time.Second})

	_, err := cached.Handle(context.Background(), lookup{Owner: "ann", Page: 1})
	require.NoError(t, err)

	opts := store.options["user_items::u=ann::p=1"]
	assert.Equal(t, 30*time.Second, opts.SlidingExpiration)
	assert.Zero(t, opts.AbsoluteExpirationRelativeToNow)
}

func TestCached_HandlerErrorNotCached(t *testing.T) {
	cached, handler, store, _ := newCached(t, Policy{TTL: time.Minute})
	sentinel := errors.New("repository unavailable")
	handler.err = sentinel

	_, err := cached.Handle(context.Background(), lookup{Owner: "ann", Page: 1})
	assert.Equal(t, sentinel, err)
	assert.False(t, store.has("user_items::u=ann::p=1"))
}

func TestCached_EmptyKeyFails(t *testing.T) {
	store := newMemoryStore()
	svc := cache.NewService(store)
	handler := &countingHandler{}
	empty := cache.KeyBuilderFunc[lookup](func(lookup) string { return "" })

	cached := New("Broken", handler.handle, svc, empty, nil, Policy{})
	_, err := cached.Handle(context.Background(), lookup{})

	assert.ErrorIs(t, err, cache.ErrEmptyKey)
	assert.Zero(t, handler.count())
}

func TestCached_Name(t *testing.T) {
	cached, _, _, _ := newCached(t, Policy{})
	assert.Equal(t, "user_items", cached.Name())
}

func TestRegistry_InvalidateTags(t *testing.T) {
	cached, handler, store, registry := newCached(t, Policy{Tags: []string{"items"}})

	ctx := WithCacheTags(context.Background(), "user:ann")
	_, err := cached.Handle(ctx, lookup{Owner: "ann", Page: 1})
	require.NoError(t, err)
	_, err = cached.Handle(context.Background(), lookup{Owner: "bob", Page: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"user_items", "items", "user:ann"}, registry.Tags("user_items::u=ann::p=1"))

	require.NoError(t, registry.InvalidateTags(context.Background(), "user:ann"))
	assert.False(t, store.has("user_items::u=ann::p=1"))
	assert.True(t, store.has("user_items::u=bob::p=1"))
	assert.Equal(t, []string{"user_items::u=bob::p=1"}, registry.Keys())

	require.NoError(t, registry.InvalidateTags(context.Background(), "items"))
	assert.Empty(t, registry.Keys())

	_, err = cached.Handle(context.Background(), lookup{Owner: "bob", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, handler.count(), "invalidated key must be recomputed")
}

func TestRegistry_InvalidatePrefix(t *testing.T) {
	cached, _, store, registry := newCached(t, Policy{})
	ctx := context.Background()

	for _, owner := range []string{"ann", "bob"} {
		_, err := cached.Handle(ctx, lookup{Owner: owner, Page: 1})
		require.NoError(t, err)
	}

	// memoryStore has no prefix support; tracked keys are still dropped.
	require.NoError(t, registry.InvalidatePrefix(ctx, "user_items::u=ann"))
	assert.False(t, store.has("user_items::u=ann::p=1"))
	assert.True(t, store.has("user_items::u=bob::p=1"))
}

func TestRegistry_TrackMergesTags(t *testing.T) {
	registry := NewRegistry(cache.NewService(newMemoryStore()), nil)

	registry.Track("k", "a", "b")
	registry.Track("k", "b", "c", "")

	assert.Equal(t, []string{"a", "b", "c"}, registry.Tags("k"))
}

func TestWithCacheTags(t *testing.T) {
	ctx := WithCacheTags(context.Background(), "a", "b")
	ctx = WithCacheTags(ctx, "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, cacheTagsFromContext(ctx))

	assert.Nil(t, cacheTagsFromContext(context.Background()))
	base := context.Background()
	assert.Equal(t, base, WithCacheTags(base))
}

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"ListItems":       "list_items",
		"FindPriceRange":  "find_price_range",
		"HTTPHandler":     "http_handler",
		"*catalog.Item":   "catalog_item",
		"recommend-items": "recommend_items",
		"Top10Items":      "top_10_items",
	}

	for in, want := range tests {
		assert.Equal(t, want, toSnake(in), in)
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClockedCached(policy Policy, opts ...RegistryOption) (*Cached[lookup, []string], *Registry, *testClock) {
	clock := &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := cache.NewService(newMemoryStore())
	registry := NewRegistry(svc, nil, append([]RegistryOption{WithRegistryClock(clock.Now)}, opts...)...)
	handler := &countingHandler{}
	return New("UserItems", handler.handle, svc, lookupKeys, registry, policy), registry, clock
}

func TestRegistry_ForgetsExpiredKeys(t *testing.T) {
	cached, registry, clock := newClockedCached(Policy{TTL: time.Millisecond})
	ctx := context.Background()

	for page := 0; page < 10000; page++ {
		_, err := cached.Handle(ctx, lookup{Owner: "ann", Page: page})
		require.NoError(t, err)
	}
	assert.Equal(t, 10000, registry.Len())

	clock.Advance(time.Millisecond)

	assert.Empty(t, registry.Keys())
	assert.Zero(t, registry.keys.Size(), "expired keys must be dropped, not only hidden")
	assert.Nil(t, registry.Tags("user_items::u=ann::p=0"))
}

func TestRegistry_TrackPrunesPeriodically(t *testing.T) {
	_, registry, clock := newClockedCached(Policy{}, WithMaxAge(time.Minute))

	for i := 0; i < 1000; i++ {
		registry.Track(fmt.Sprintf("old:%d", i), "items")
	}
	clock.Advance(time.Minute)

	for i := 0; i < pruneEvery; i++ {
		registry.Track(fmt.Sprintf("new:%d", i), "items")
	}

	// The sweep ran on the pruneEvery-th call and dropped every old key.
	assert.Equal(t, pruneEvery, registry.keys.Size())
}

func TestRegistry_SlidingReadsKeepKeyTracked(t *testing.T) {
	cached, registry, clock := newClockedCached(Policy{Sliding: 10 * time.Second})
	ctx := context.Background()
	req := lookup{Owner: "ann", Page: 1}

	for i := 0; i < 3; i++ {
		_, err := cached.Handle(ctx, req)
		require.NoError(t, err)
		clock.Advance(8 * time.Second)
	}
	assert.Equal(t, []string{"user_items::u=ann::p=1"}, registry.Keys())

	clock.Advance(3 * time.Second)
	assert.Equal(t, 1, registry.Prune(), "idle key expires")
	assert.Empty(t, registry.Keys())
}

func TestRegistry_TrackUntilKeepsLaterExpiry(t *testing.T) {
	_, registry, clock := newClockedCached(Policy{})
	start := clock.Now()

	registry.TrackUntil("k", start.Add(time.Minute), "a")
	registry.TrackUntil("k", start.Add(time.Second), "b")

	clock.Advance(30 * time.Second)
	assert.Equal(t, []string{"a", "b"}, registry.Tags("k"))

	clock.Advance(30 * time.Second)
	assert.Nil(t, registry.Tags("k"))
}

func TestRegistry_KeysWithoutDeadlineNeverExpire(t *testing.T) {
	_, registry, clock := newClockedCached(Policy{})

	registry.Track("k", "a")
	clock.Advance(24 * time.Hour)

	assert.Equal(t, []string{"k"}, registry.Keys())
	assert.Zero(t, registry.Prune())
}
