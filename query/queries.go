package query

import (
	"math/rand/v2"
	"time"

	"github.com/goliatone/go-auction-query/cache"
	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/paging"
	"github.com/goliatone/go-auction-query/querycache"
	"go.uber.org/zap"
)

// Cache tags attached by the handlers. Item writes should invalidate
// TagItems, category writes TagCategories.
const (
	TagItems      = "items"
	TagCategories = "categories"
)

// Config holds the caching policy of the cached queries.
type Config struct {
	ListItemsTTL  time.Duration
	CategoriesTTL time.Duration
	PriceRangeTTL time.Duration
	// SlidingExpiration, when set, also expires entries left unread for that long.
	SlidingExpiration time.Duration
	// Codec encodes cached pages and values. Nil uses the service codec.
	Codec cache.Codec
}

func DefaultConfig() Config {
	return Config{
		ListItemsTTL:  5 * time.Minute,
		CategoriesTTL: 5 * time.Minute,
		PriceRangeTTL: 5 * time.Minute,
	}
}

// Queries is the read side of the marketplace. Every method builds a
// specification, and the cacheable ones go through a querycache.Cached front.
type Queries struct {
	items      catalog.ItemRepository
	categories catalog.CategoryRepository
	registry   *querycache.Registry
	logger     *zap.Logger
	now        func() time.Time
	shuffle    func(n int, swap func(i, j int))

	listItems      *querycache.Cached[ListItemsRequest, paging.Page[catalog.ItemSummary]]
	listCategories *querycache.Cached[struct{}, []catalog.ParentCategory]
	priceRange     *querycache.Cached[struct{}, PriceRange]
}

// Option configures Queries.
type Option func(*Queries)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(q *Queries) {
		if now != nil {
			q.now = now
		}
	}
}

// WithShuffle replaces the shuffle applied to regular recommendations.
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(q *Queries) {
		if shuffle != nil {
			q.shuffle = shuffle
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(q *Queries) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithRegistry shares a key registry with other cached handlers.
func WithRegistry(registry *querycache.Registry) Option {
	return func(q *Queries) {
		if registry != nil {
			q.registry = registry
		}
	}
}

// New wires the queries over the given repositories and cache service.
func New(items catalog.ItemRepository, categories catalog.CategoryRepository, svc *cache.Service, cfg Config, opts ...Option) *Queries {
	q := &Queries{
		items:      items,
		categories: categories,
		logger:     zap.NewNop(),
		now:        time.Now,
		shuffle:    rand.Shuffle,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.logger = q.logger.Named("query")
	if q.registry == nil {
		q.registry = querycache.NewRegistry(svc, q.logger)
	}

	q.listItems = querycache.New("list_items", q.fetchItems, svc, ListItemsKey, q.registry, querycache.Policy{
		TTL:     cfg.ListItemsTTL,
		Sliding: cfg.SlidingExpiration,
		Codec:   paging.NewCodec[catalog.ItemSummary](cfg.Codec),
		Tags:    []string{TagItems},
	})
	q.listCategories = querycache.New("list_categories", q.fetchCategories, svc,
		cache.StaticKey[struct{}](CategoriesKey), q.registry, querycache.Policy{
			TTL:     cfg.CategoriesTTL,
			Sliding: cfg.SlidingExpiration,
			Codec:   cfg.Codec,
			Tags:    []string{TagCategories},
		})
	q.priceRange = querycache.New("price_range", q.fetchPriceRange, svc,
		cache.StaticKey[struct{}](PriceRangeKey), q.registry, querycache.Policy{
			TTL:     cfg.PriceRangeTTL,
			Sliding: cfg.SlidingExpiration,
			Codec:   cfg.Codec,
			Tags:    []string{TagItems},
		})

	return q
}

// Registry returns the registry tracking the keys produced by the queries.
func (q *Queries) Registry() *querycache.Registry {
	return q.registry
}
