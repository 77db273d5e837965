// Package querycache adds cache-aside reads to request handlers.
//
// # Overview
//
// A Cached handler derives a key from each request through a
// cache.KeyBuilder, looks it up in a cache.Service and only calls the wrapped
// handler on a miss, writing the answer back with the handler's Policy.
//
//	list := querycache.New("ListItems", handler.list, svc, keys, registry, querycache.Policy{
//		TTL:   5 * time.Minute,
//		Codec: paging.NewCodec[catalog.ItemSummary](nil),
//	})
//	page, err := list.Handle(ctx, request)
//
// # Invalidation
//
// Every key a handler produces is tracked in a shared Registry with the
// handler name (snake case), the policy tags and any tags found on the
// context (see WithCacheTags). InvalidateTags drops all keys carrying a tag;
// InvalidatePrefix drops tracked keys by prefix and, for stores that support
// it, untracked ones written by other processes.
//
// # Tracing
//
// Handle runs inside an OpenTelemetry span named "querycache.<name>" with the
// cache key and a cache.hit attribute. Without a registered provider the
// global no-op tracer is used.
package querycache
