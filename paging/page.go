package paging

import "encoding/json"

// Page is an immutable slice of a larger result set with its paging metadata.
type Page[T any] struct {
	elements      []T
	totalElements int
	totalPages    int
	empty         bool
	lastPage      bool
}

// NewPage computes the paging metadata from a live Pageable and the total
// number of matching records.
func NewPage[T any](elements []T, pageable Pageable, totalElements int) Page[T] {
	elements = normalize(elements)

	totalPages := 0
	if pageable.Size() > 0 {
		totalPages = (totalElements + pageable.Size() - 1) / pageable.Size()
	}

	return Page[T]{
		elements:      elements,
		totalElements: totalElements,
		totalPages:    totalPages,
		empty:         len(elements) == 0,
		lastPage:      pageable.Number() >= totalPages,
	}
}

// NewFrozenPage builds a Page from already computed metadata. It is used when
// the originating Pageable is gone: cached pages and mapped pages.
func NewFrozenPage[T any](elements []T, totalElements, totalPages int, isEmpty, isLastPage bool) Page[T] {
	return Page[T]{
		elements:      normalize(elements),
		totalElements: totalElements,
		totalPages:    totalPages,
		empty:         isEmpty,
		lastPage:      isLastPage,
	}
}

// Map transforms every element and carries the metadata over unchanged.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	mapped := make([]U, len(p.elements))
	for i, e := range p.elements {
		mapped[i] = fn(e)
	}
	return NewFrozenPage(mapped, p.totalElements, p.totalPages, p.empty, p.lastPage)
}

// Elements returns a copy of the page elements.
func (p Page[T]) Elements() []T {
	out := make([]T, len(p.elements))
	copy(out, p.elements)
	return out
}

func (p Page[T]) Len() int { return len(p.elements) }

func (p Page[T]) TotalElements() int { return p.totalElements }

func (p Page[T]) TotalPages() int { return p.totalPages }

func (p Page[T]) IsEmpty() bool { return p.empty }

func (p Page[T]) IsLastPage() bool { return p.lastPage }

// Snapshot is the wire shape of a Page. Every derived scalar is stored as is.
type Snapshot[T any] struct {
	Elements      []T  `json:"elements"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	IsEmpty       bool `json:"isEmpty"`
	IsLastPage    bool `json:"isLastPage"`
}

// Snapshot freezes p into its wire shape.
func (p Page[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{
		Elements:      p.elements,
		TotalElements: p.totalElements,
		TotalPages:    p.totalPages,
		IsEmpty:       p.empty,
		IsLastPage:    p.lastPage,
	}
}

// Page rebuilds the page without recomputing anything.
func (s Snapshot[T]) Page() Page[T] {
	return NewFrozenPage(s.Elements, s.TotalElements, s.TotalPages, s.IsEmpty, s.IsLastPage)
}

// MarshalJSON renders the snapshot shape for API responses.
func (p Page[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Snapshot())
}

func normalize[T any](elements []T) []T {
	if elements == nil {
		return []T{}
	}
	return elements
}
