package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-auction-query/cache"
	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/internal/cacheinfra"
	"github.com/goliatone/go-auction-query/internal/config"
	"github.com/goliatone/go-auction-query/internal/metrics"
	"github.com/goliatone/go-auction-query/query"
	"github.com/goliatone/go-auction-query/querycache"
	"github.com/goliatone/go-auction-query/storage/bunstore"
	"github.com/goliatone/go-auction-query/storage/memstore"
)

// Container owns the long lived components of the service: the cache store
// and service, the key registry, the repositories and the query handlers.
type Container struct {
	config  config.Config
	logger  *zap.Logger
	metrics *metrics.Collector

	store    cache.Store
	service  *cache.Service
	registry *querycache.Registry

	items      catalog.ItemRepository
	categories catalog.CategoryRepository
	memItems   *memstore.ItemStore
	records    repository.Repository[*bunstore.ItemRecord]

	queries *query.Queries

	db          *bun.DB
	redisClient redis.UniversalClient
	ownsRedis   bool
}

// Option customizes a Container.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	now         func() time.Time
	redisClient redis.UniversalClient
	seedCats    []catalog.Category
	seedItems   []catalog.Item
}

// WithLogger sets the root logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now in the query handlers.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRedisClient uses client instead of dialing cache.redis.addr.
// The container does not close it.
func WithRedisClient(client redis.UniversalClient) Option {
	return func(o *options) {
		o.redisClient = client
	}
}

// WithSeed loads categories and items into the store of record when
// database.seed is set.
func WithSeed(categories []catalog.Category, items []catalog.Item) Option {
	return func(o *options) {
		o.seedCats = categories
		o.seedItems = items
	}
}

// NewContainer wires every component described by cfg. Close releases the
// database and redis connections it opened.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	o := &options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	c := &Container{
		config:  cfg,
		logger:  o.logger,
		metrics: metrics.New(),
	}

	if err := c.initCache(cfg.Cache, o); err != nil {
		return nil, err
	}

	c.registry = querycache.NewRegistry(c.service, c.logger, querycache.WithMaxAge(cfg.Cache.MaxTTL))

	if err := c.initRepositories(ctx, cfg.Database, o); err != nil {
		c.Close()
		return nil, err
	}

	c.queries = query.New(c.items, c.categories, c.service, cfg.Cache.Queries(),
		query.WithLogger(c.logger),
		query.WithRegistry(c.registry),
		query.WithClock(o.now),
	)

	c.logger.Info("container ready",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("database_driver", cfg.Database.Driver),
	)
	return c, nil
}

func (c *Container) initCache(cfg config.CacheConfig, o *options) error {
	switch cfg.Backend {
	case "redis":
		client := o.redisClient
		if client == nil {
			rc, err := cacheinfra.NewRedisClient(cfg.RedisStore())
			if err != nil {
				return fmt.Errorf("di: redis client: %w", err)
			}
			client = rc
			c.ownsRedis = true
		}
		c.redisClient = client
		c.store = cacheinfra.NewRedisStore(client,
			cacheinfra.WithKeyPrefix(cfg.Redis.KeyPrefix),
			cacheinfra.WithRedisMetrics(c.metrics),
		)
	default:
		store, err := cacheinfra.NewSturdycStore(cfg.Store(), cacheinfra.WithStoreMetrics(c.metrics))
		if err != nil {
			return fmt.Errorf("di: sturdyc store: %w", err)
		}
		c.store = store
	}

	c.service = cache.NewService(c.store,
		cache.WithCodec(cache.CodecByName(cfg.Codec)),
		cache.WithLogger(c.logger),
		cache.WithMetrics(c.metrics),
	)
	return nil
}

func (c *Container) initRepositories(ctx context.Context, cfg config.DatabaseConfig, o *options) error {
	seed := cfg.Seed && (len(o.seedCats) > 0 || len(o.seedItems) > 0)

	if cfg.Driver == "memory" || cfg.Driver == "" {
		c.memItems = memstore.NewItemStore()
		categories := memstore.NewCategoryStore()
		if seed {
			c.memItems.Put(o.seedItems...)
			categories.Add(o.seedCats...)
		}
		c.items, c.categories = c.memItems, categories
		return nil
	}

	db, err := bunstore.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	c.db = db

	if err := bunstore.CreateSchema(ctx, db); err != nil {
		return err
	}
	if seed {
		if err := bunstore.Seed(ctx, db, o.seedCats, o.seedItems); err != nil {
			return err
		}
	}

	c.records = bunstore.NewInvalidating(bunstore.NewItemRepository(db), c.registry, c.logger, query.TagItems)
	c.items = bunstore.NewItemStore(c.records)
	c.categories = bunstore.NewCategoryStore(db)
	return nil
}

// AddItems stores items and drops the cached queries that list items.
// On SQL drivers only the item rows are written.
func (c *Container) AddItems(ctx context.Context, items ...catalog.Item) error {
	if c.memItems != nil {
		c.memItems.Put(items...)
		return c.Invalidate(ctx, query.TagItems)
	}
	for _, item := range items {
		if _, err := c.records.Create(ctx, bunstore.NewItemRecord(item)); err != nil {
			return fmt.Errorf("di: add item %q: %w", item.Name, err)
		}
	}
	return nil
}

// Invalidate drops every cached query result carrying one of tags.
func (c *Container) Invalidate(ctx context.Context, tags ...string) error {
	return c.registry.InvalidateTags(ctx, tags...)
}

// Close releases the connections opened by NewContainer.
func (c *Container) Close() error {
	var errs []error
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	if c.ownsRedis && c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
	}
	return errors.Join(errs...)
}

func (c *Container) Queries() *query.Queries {
	return c.queries
}

func (c *Container) Registry() *querycache.Registry {
	return c.registry
}

func (c *Container) CacheService() *cache.Service {
	return c.service
}

func (c *Container) Metrics() *metrics.Collector {
	return c.metrics
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns a copy of the configuration the container was built from.
func (c *Container) Config() config.Config {
	return c.config
}
