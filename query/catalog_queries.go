package query

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/similarity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CategoriesKey = "categories_list"
	PriceRangeKey = "min_max_price"
)

// ErrNoBids is returned by HighestBidder for items nobody bid on.
var ErrNoBids = errors.New("query: item has no bids")

// PriceRange spans the prices of active items. The maximum accounts for bids.
type PriceRange struct {
	MinPrice decimal.Decimal `json:"minPrice"`
	MaxPrice decimal.Decimal `json:"maxPrice"`
}

// ListCategories returns the category tree.
func (q *Queries) ListCategories(ctx context.Context) ([]catalog.ParentCategory, error) {
	return q.listCategories.Handle(ctx, struct{}{})
}

func (q *Queries) fetchCategories(ctx context.Context, _ struct{}) ([]catalog.ParentCategory, error) {
	categories, err := q.categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.CategoryTree(categories), nil
}

// FindPriceRange returns the lowest initial price and the highest current
// price among active items. An empty catalog yields a zero range.
func (q *Queries) FindPriceRange(ctx context.Context) (PriceRange, error) {
	return q.priceRange.Handle(ctx, struct{}{})
}

func (q *Queries) fetchPriceRange(ctx context.Context, _ struct{}) (PriceRange, error) {
	items, err := q.items.ListAll(ctx, catalog.NewItemFilter().IsActive().Specification())
	if err != nil {
		return PriceRange{}, err
	}
	if len(items) == 0 {
		return PriceRange{MinPrice: decimal.Zero, MaxPrice: decimal.Zero}, nil
	}

	r := PriceRange{MinPrice: items[0].InitialPrice, MaxPrice: items[0].CurrentPrice()}
	for _, item := range items[1:] {
		r.MinPrice = decimal.Min(r.MinPrice, item.InitialPrice)
		r.MaxPrice = decimal.Max(r.MaxPrice, item.CurrentPrice())
	}
	return r, nil
}

// FindItem returns the detail view of one item.
func (q *Queries) FindItem(ctx context.Context, id uuid.UUID) (catalog.ItemInfo, error) {
	item, err := q.items.FindByID(ctx, id)
	if err != nil {
		return catalog.ItemInfo{}, err
	}
	return catalog.ToInfo(item, q.now()), nil
}

// HighestBidder returns the bidder holding the highest bid on an item. On
// equal amounts the earliest bid wins.
func (q *Queries) HighestBidder(ctx context.Context, id uuid.UUID) (string, error) {
	item, err := q.items.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if len(item.Bids) == 0 {
		return "", ErrNoBids
	}

	best := item.Bids[0]
	for _, b := range item.Bids[1:] {
		switch b.Amount.Cmp(best.Amount) {
		case 1:
			best = b
		case 0:
			if b.PlacedAt.Before(best.PlacedAt) {
				best = b
			}
		}
	}
	return best.BidderID, nil
}

// SuggestName returns the active item name closest to target, ignoring case.
// similarity.ErrNoCandidates is returned when no item is active.
func (q *Queries) SuggestName(ctx context.Context, target string) (string, error) {
	if err := validation.Validate(target, validation.Required, validation.Length(1, MaxSearchLength)); err != nil {
		return "", validation.Errors{"target": err}
	}

	items, err := q.items.ListAll(ctx, catalog.NewItemFilter().IsActive().Specification())
	if err != nil {
		return "", err
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return similarity.MostSimilarFold(names, target)
}
