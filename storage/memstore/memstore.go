// Package memstore keeps the catalog in process memory and evaluates item
// specifications directly. It backs tests, demos and the "memory" database
// driver.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/paging"
	"github.com/goliatone/go-auction-query/specification"
	"github.com/google/uuid"
)

// ItemStore is a concurrency safe in memory catalog.ItemRepository.
type ItemStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]catalog.Item
}

var _ catalog.ItemRepository = (*ItemStore)(nil)

func NewItemStore(items ...catalog.Item) *ItemStore {
	s := &ItemStore{items: make(map[uuid.UUID]catalog.Item, len(items))}
	s.Put(items...)
	return s
}

// Put inserts or replaces items by ID.
func (s *ItemStore) Put(items ...catalog.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.ID] = clone(item)
	}
}

func (s *ItemStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// ListPage selects with spec, then slices out the requested page. The total
// is the size of the selection, not of the store.
func (s *ItemStore) ListPage(ctx context.Context, pageable paging.Pageable, spec *specification.Specification[catalog.Item]) (paging.Page[catalog.Item], error) {
	if err := ctx.Err(); err != nil {
		return paging.Page[catalog.Item]{}, err
	}
	return catalog.SelectPage(s.snapshot(), pageable, spec), nil
}

func (s *ItemStore) ListAll(ctx context.Context, spec *specification.Specification[catalog.Item]) ([]catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return specification.Select(s.snapshot(), spec, catalog.ByName), nil
}

func (s *ItemStore) FindByID(ctx context.Context, id uuid.UUID) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return catalog.Item{}, catalog.ErrItemNotFound
	}
	return clone(item), nil
}

// snapshot returns cloned items sorted by ID so evaluation does not depend on
// map iteration order.
func (s *ItemStore) snapshot() []catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, clone(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func clone(item catalog.Item) catalog.Item {
	item.Images = slices.Clone(item.Images)
	item.Bids = slices.Clone(item.Bids)
	if item.Category.Parent != nil {
		parent := *item.Category.Parent
		item.Category.Parent = &parent
	}
	return item
}

// CategoryStore is an in memory catalog.CategoryRepository.
type CategoryStore struct {
	mu         sync.RWMutex
	categories []catalog.Category
}

var _ catalog.CategoryRepository = (*CategoryStore)(nil)

func NewCategoryStore(categories ...catalog.Category) *CategoryStore {
	return &CategoryStore{categories: slices.Clone(categories)}
}

// ListAll returns the categories in insertion order.
func (s *CategoryStore) ListAll(ctx context.Context) ([]catalog.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories), nil
}

func (s *CategoryStore) Add(categories ...catalog.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, categories...)
}
