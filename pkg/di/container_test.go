package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-auction-query/internal/cacheinfra"
	"github.com/goliatone/go-auction-query/internal/config"
	"github.com/goliatone/go-auction-query/pkg/testsupport"
	"github.com/goliatone/go-auction-query/query"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	return cfg
}

func newSampleContainer(t *testing.T, cfg config.Config, opts ...Option) *Container {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return testsupport.SampleNow }),
		WithSeed(testsupport.SampleCategories(), testsupport.SampleCatalog(testsupport.SampleNow)),
	}, opts...)

	container, err := NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { container.Close() })
	return container
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)
	container := newSampleContainer(t, cfg)

	if container.Queries() == nil {
		t.Fatal("Container should have non-nil queries")
	}
	if container.CacheService() == nil {
		t.Error("Container should have a non-nil cache service")
	}
	if container.Registry() == nil {
		t.Error("Container should have a non-nil registry")
	}
	if container.Metrics() == nil {
		t.Error("Container should have a non-nil metrics collector")
	}
	if container.Queries().Registry() != container.Registry() {
		t.Error("Queries should share the container registry")
	}
	if got := container.Config().Cache.Backend; got != "memory" {
		t.Errorf("Expected memory backend, got %q", got)
	}
}

func TestNewContainer_InvalidStoreConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Capacity = 0

	_, err := NewContainer(context.Background(), cfg)
	if err == nil {
		t.Fatal("Expected error for zero capacity")
	}

	var cfgErr *cacheinfra.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *cacheinfra.ConfigError, got %T", err)
	}
	if cfgErr.Field != "Capacity" {
		t.Errorf("Expected field Capacity, got %q", cfgErr.Field)
	}
}

func TestNewContainer_WithoutSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Seed = false
	container := newSampleContainer(t, cfg)

	page, err := container.Queries().ListItems(context.Background(), query.ListItemsRequest{})
	if err != nil {
		t.Fatalf("ListItems() failed: %v", err)
	}
	if !page.IsEmpty() {
		t.Errorf("Expected empty catalog, got %d items", page.TotalElements())
	}
}

func TestNewContainer_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := testConfig(t)
	cfg.Cache.Backend = "redis"
	cfg.Cache.Codec = "msgpack"
	container := newSampleContainer(t, cfg, WithRedisClient(client))

	ctx := context.Background()
	first, err := container.Queries().ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() failed: %v", err)
	}
	if !mr.Exists("auction:" + query.CategoriesKey) {
		t.Fatalf("Expected categories under the configured prefix, keys: %v", mr.Keys())
	}

	second, err := container.Queries().ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() from cache failed: %v", err)
	}
	if len(first) != len(second) || len(second) != 2 {
		t.Errorf("Expected two parent categories twice, got %d and %d", len(first), len(second))
	}

	if err := container.Invalidate(ctx, query.TagCategories); err != nil {
		t.Fatalf("Invalidate() failed: %v", err)
	}
	if mr.Exists("auction:" + query.CategoriesKey) {
		t.Error("Expected categories to be dropped from redis")
	}

	if err := container.Close(); err != nil {
		t.Errorf("Close() should not close an injected client: %v", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		t.Errorf("Injected client should stay usable: %v", err)
	}
}

func TestNewContainer_SQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = ":memory:"
	container := newSampleContainer(t, cfg)

	ctx := context.Background()
	categories, err := container.Queries().ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() failed: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Home" {
		t.Fatalf("Unexpected category tree: %+v", categories)
	}

	page, err := container.Queries().ListItems(ctx, query.ListItemsRequest{})
	if err != nil {
		t.Fatalf("ListItems() failed: %v", err)
	}
	if page.TotalElements() != 8 {
		t.Errorf("Expected 8 items, got %d", page.TotalElements())
	}
}

func TestNewContainer_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"
	cfg.Database.DSN = "x"

	if _, err := NewContainer(context.Background(), cfg); err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
}

func configForBench() (config.Config, error) {
	return config.Load("")
}
