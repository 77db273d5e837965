// Package cache provides the cache-aside service, entry options and key building
// used by the catalog query handlers.
//
// # Overview
//
// The package exports a small set of pieces that compose into a read-through cache:
//
//   - Store: byte level key/value collaborator (in-process or network)
//   - Service: cache-aside front over a Store with a default Codec, a logger and metrics
//   - Get, Set, GetOrFetch: type-safe generic helpers around a Service
//   - OptionsBuilder: per-entry expiration policy (absolute, relative, sliding)
//   - Key and KeyBuilder: deterministic key derivation from request shapes
//
// # Basic Usage
//
//	svc := cache.NewService(store, cache.WithLogger(logger))
//
//	opts, err := cache.NewOptionsBuilder().
//		WithKey(key).
//		WithAbsoluteExpirationRelativeToNow(5 * time.Minute).
//		Build()
//	if err != nil {
//		return err
//	}
//
//	categories, err := cache.GetOrFetch(ctx, svc, key, opts, func(ctx context.Context) ([]Category, error) {
//		return repo.ListAll(ctx)
//	})
//
// # Failure Semantics
//
// The cache never decides correctness, only latency:
//
//   - A read that fails at the store or cannot be decoded is a miss. The value is
//     recomputed and written back.
//   - A write that fails is logged at warn level and the computed value is still
//     returned to the caller.
//   - Context cancellation is never swallowed. Get, Set and GetOrFetch return
//     ctx.Err() instead of a value.
//
// # Codecs
//
// The service has one default Codec (JSON unless configured otherwise). Types whose
// invariants cannot survive field by field encoding supply their own codec per call
// with WithCallCodec; paging.NewCodec is the canonical example, it keeps the frozen
// page scalars instead of recomputing them from a page size that is not stored.
//
// # Key Building
//
// Keys are a namespace followed by name=value components joined with KeySeparator:
//
//	cache.NewKey("list_items").
//		Int("p", pageable.Number()).
//		Int("s", pageable.Size()).
//		OptionalString("q", req.Search).
//		Build()
//	// list_items::p=1::s=9::q=lamp
//
// Components are written in call order, so the order is fixed once per request type.
// Optional components that are absent are omitted, while present but empty values
// keep their name, so "no filter" and "empty filter" never share a key. Separators
// inside values are escaped and long values are replaced by an xxhash digest.
//
// # Concurrency
//
// Service holds no mutable state. Two concurrent misses for the same key may both
// fetch and both write; the last write wins. Entries are derived data, so this is
// accepted instead of coordinating writers.
package cache
