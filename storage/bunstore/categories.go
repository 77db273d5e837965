package bunstore

import (
	"context"

	"github.com/goliatone/go-auction-query/catalog"
	"github.com/uptrace/bun"
)

// CategoryStore reads categories with plain bun queries.
type CategoryStore struct {
	db bun.IDB
}

var _ catalog.CategoryRepository = (*CategoryStore)(nil)

func NewCategoryStore(db bun.IDB) *CategoryStore {
	return &CategoryStore{db: db}
}

// ListAll returns every category with its parent, by ID.
func (s *CategoryStore) ListAll(ctx context.Context) ([]catalog.Category, error) {
	var records []*CategoryRecord
	err := s.db.NewSelect().
		Model(&records).
		Relation("Parent").
		OrderExpr("c.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]catalog.Category, len(records))
	for i, r := range records {
		categories[i] = r.toDomain()
	}
	return categories, nil
}
