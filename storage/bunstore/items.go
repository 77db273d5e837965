package bunstore

import (
	"context"

	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/paging"
	"github.com/goliatone/go-auction-query/specification"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemStore is a catalog.ItemRepository over a go-repository-bun repository.
//
// Specifications are Go predicates, so rows are loaded with their relations
// and evaluated in process. The store of record only sees the relation joins
// and the ordering by name.
type ItemStore struct {
	repo repository.Repository[*ItemRecord]
}

var _ catalog.ItemRepository = (*ItemStore)(nil)

func NewItemStore(repo repository.Repository[*ItemRecord]) *ItemStore {
	return &ItemStore{repo: repo}
}

// NewItemRepository builds the go-repository-bun repository for items.
func NewItemRepository(db *bun.DB) repository.Repository[*ItemRecord] {
	return repository.NewRepository[*ItemRecord](db, repository.ModelHandlers[*ItemRecord]{
		NewRecord: func() *ItemRecord { return &ItemRecord{} },
		GetID: func(r *ItemRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *ItemRecord, id uuid.UUID) { r.ID = id },
		GetIdentifier: func() string {
			return "name"
		},
	})
}

func (s *ItemStore) ListPage(ctx context.Context, pageable paging.Pageable, spec *specification.Specification[catalog.Item]) (paging.Page[catalog.Item], error) {
	items, err := s.load(ctx)
	if err != nil {
		return paging.Page[catalog.Item]{}, err
	}
	return catalog.SelectPage(items, pageable, spec), nil
}

func (s *ItemStore) ListAll(ctx context.Context, spec *specification.Specification[catalog.Item]) ([]catalog.Item, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return specification.Select(items, spec, catalog.ByName), nil
}

func (s *ItemStore) FindByID(ctx context.Context, id uuid.UUID) (catalog.Item, error) {
	records, _, err := s.repo.List(ctx, withRelations, byID(id))
	if err != nil {
		return catalog.Item{}, err
	}
	if len(records) == 0 {
		return catalog.Item{}, catalog.ErrItemNotFound
	}
	return records[0].toDomain(), nil
}

func (s *ItemStore) load(ctx context.Context) ([]catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, _, err := s.repo.List(ctx, withRelations, byName)
	if err != nil {
		return nil, err
	}

	items := make([]catalog.Item, len(records))
	for i, r := range records {
		items[i] = r.toDomain()
	}
	return items, nil
}

func withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Category").
		Relation("Category.Parent").
		Relation("Images", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("img.id ASC")
		}).
		Relation("Bids", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("b.id ASC")
		})
}

func byName(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.name ASC")
}

func byID(id uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	}
}
