package querycache

import (
	"context"
	"time"

	"github.com/goliatone/go-auction-query/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-auction-query/querycache"

// Handler answers a request from the source of truth.
type Handler[R, T any] func(ctx context.Context, request R) (T, error)

// Policy is the per handler caching policy.
type Policy struct {
	// TTL is the absolute expiration relative to the write. Zero disables it.
	TTL time.Duration
	// Sliding is the inactivity window. Zero disables it.
	Sliding time.Duration
	// Codec overrides the service codec for this handler's entries.
	Codec cache.Codec
	// Tags are attached to every key the handler produces.
	Tags []string
}

// Cached decorates a Handler with cache-aside reads.
type Cached[R, T any] struct {
	name     string
	next     Handler[R, T]
	cache    *cache.Service
	keys     cache.KeyBuilder[R]
	registry *Registry
	policy   Policy
	tracer   trace.Tracer
}

// New wraps next. name identifies the handler in traces and is always
// registered as a tag of its keys, in snake case.
func New[R, T any](name string, next Handler[R, T], svc *cache.Service, keys cache.KeyBuilder[R], registry *Registry, policy Policy) *Cached[R, T] {
	if registry == nil {
		registry = NewRegistry(svc, nil)
	}
	return &Cached[R, T]{
		name:     toSnake(name),
		next:     next,
		cache:    svc,
		keys:     keys,
		registry: registry,
		policy:   policy,
		tracer:   otel.Tracer(tracerName),
	}
}

// Name returns the snake case handler name.
func (c *Cached[R, T]) Name() string {
	return c.name
}

// Handle serves request from the cache, falling back to the wrapped handler
// on a miss. Errors from the wrapped handler are returned unchanged.
func (c *Cached[R, T]) Handle(ctx context.Context, request R) (T, error) {
	var zero T

	key := c.keys.BuildKey(request)
	opts, err := c.options(key)
	if err != nil {
		return zero, err
	}

	tags := append([]string{c.name}, c.policy.Tags...)
	tags = append(tags, cacheTagsFromContext(ctx)...)
	c.registry.TrackUntil(key, c.expiresAt(opts), tags...)

	ctx, span := c.tracer.Start(ctx, "querycache."+c.name,
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	hit := true
	value, err := cache.GetOrFetch(ctx, c.cache, key, opts, func(ctx context.Context) (T, error) {
		hit = false
		return c.next(ctx, request)
	}, cache.WithCallCodec(c.policy.Codec))

	span.SetAttributes(attribute.Bool("cache.hit", hit))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	// The store stamped the entry after the first track; extend past that write.
	c.registry.TrackUntil(key, c.expiresAt(opts), tags...)
	return value, nil
}

// expiresAt mirrors the lifetime the store gives an entry written or read now.
func (c *Cached[R, T]) expiresAt(opts cache.Options) time.Time {
	now := c.registry.now()
	return opts.ExpiresAt(now, opts.Deadline(now))
}

func (c *Cached[R, T]) options(key string) (cache.Options, error) {
	builder := cache.NewOptionsBuilder().WithKey(key)
	if c.policy.TTL > 0 {
		builder.WithAbsoluteExpirationRelativeToNow(c.policy.TTL)
	}
	if c.policy.Sliding > 0 {
		builder.WithSlidingExpiration(c.policy.Sliding)
	}
	return builder.Build()
}
