package catalog

import (
	"context"

	"github.com/goliatone/go-auction-query/paging"
	"github.com/goliatone/go-auction-query/specification"
	"github.com/google/uuid"
)

// ItemRepository executes item specifications against the store of record.
//
// ListPage returns one page plus the number of items the specification
// selects, bounded by its cap, not the size of the whole catalog. Without an
// ordering on the specification items come back by name.
type ItemRepository interface {
	ListPage(ctx context.Context, pageable paging.Pageable, spec *specification.Specification[Item]) (paging.Page[Item], error)
	ListAll(ctx context.Context, spec *specification.Specification[Item]) ([]Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (Item, error)
}

// CategoryRepository lists every category with its parent loaded.
type CategoryRepository interface {
	ListAll(ctx context.Context) ([]Category, error)
}

// ByName is the default ordering of item listings.
func ByName(a, b Item) bool {
	return a.Name < b.Name
}

// SelectPage evaluates spec over items in process and cuts out one page.
// Repositories that cannot push a specification down to their store share it.
func SelectPage(items []Item, pageable paging.Pageable, spec *specification.Specification[Item]) paging.Page[Item] {
	if pageable.IsZero() {
		pageable = paging.Default()
	}

	matched := specification.Select(items, spec, ByName)

	start := min(pageable.Skip(), len(matched))
	end := min(start+pageable.Size(), len(matched))
	return paging.NewPage(matched[start:end], pageable, len(matched))
}
