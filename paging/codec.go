package paging

import (
	"fmt"

	"github.com/goliatone/go-auction-query/cache"
)

// NewCodec returns a cache codec for Page[T]. A Page keeps its metadata in
// unexported fields and has no Pageable once cached, so it is stored as a
// Snapshot and rebuilt through NewFrozenPage. inner encodes the snapshot and
// defaults to JSON.
func NewCodec[T any](inner cache.Codec) cache.Codec {
	if inner == nil {
		inner = cache.JSONCodec{}
	}
	return pageCodec[T]{inner: inner}
}

type pageCodec[T any] struct {
	inner cache.Codec
}

func (c pageCodec[T]) Marshal(v any) ([]byte, error) {
	switch p := v.(type) {
	case Page[T]:
		return c.inner.Marshal(p.Snapshot())
	case *Page[T]:
		return c.inner.Marshal(p.Snapshot())
	default:
		return nil, fmt.Errorf("paging: codec cannot marshal %T", v)
	}
}

func (c pageCodec[T]) Unmarshal(data []byte, v any) error {
	target, ok := v.(*Page[T])
	if !ok {
		return fmt.Errorf("paging: codec cannot unmarshal into %T", v)
	}

	var snapshot Snapshot[T]
	if err := c.inner.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	*target = snapshot.Page()
	return nil
}
