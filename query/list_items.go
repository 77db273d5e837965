package query

import (
	"context"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-auction-query/cache"
	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/paging"
	"github.com/shopspring/decimal"
)

// MaxSearchLength bounds free text search and category names.
const MaxSearchLength = 64

// ListItemsRequest asks for one page of the catalog. Nil optional fields are
// absent; a present but empty field is a different request.
type ListItemsRequest struct {
	Pageable   paging.Pageable
	Search     *string
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// Normalize trims and lowercases the search text, and lowercases, dedupes and
// sorts the categories, so equivalent requests share a cache key.
func (r ListItemsRequest) Normalize() ListItemsRequest {
	if r.Pageable.IsZero() {
		r.Pageable = paging.Default()
	}
	if r.Search != nil {
		search := strings.ToLower(strings.TrimSpace(*r.Search))
		r.Search = &search
	}
	if r.Categories != nil {
		categories := make([]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			categories = append(categories, strings.ToLower(strings.TrimSpace(c)))
		}
		slices.Sort(categories)
		r.Categories = slices.Compact(categories)
	}
	return r
}

func (r ListItemsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Search, validation.Length(0, MaxSearchLength)),
		validation.Field(&r.Categories, validation.Each(validation.Required, validation.Length(1, MaxSearchLength))),
		validation.Field(&r.MinPrice, validation.By(nonNegative)),
		validation.Field(&r.MaxPrice, validation.By(nonNegative), validation.By(notBelow(r.MinPrice))),
	)
}

// ListItemsKey derives list_items::p=..::s=..[::q=..][::c=..][::min=..][::max=..].
var ListItemsKey = cache.KeyBuilderFunc[ListItemsRequest](func(r ListItemsRequest) string {
	return cache.NewKey("list_items").
		Int("p", r.Pageable.Number()).
		Int("s", r.Pageable.Size()).
		OptionalString("q", r.Search).
		Strings("c", r.Categories).
		Value("min", r.MinPrice).
		Value("max", r.MaxPrice).
		Build()
})

// ListItems returns a page of item summaries ordered by name. The request is
// normalized and validated before the cache or the repository is touched.
func (q *Queries) ListItems(ctx context.Context, req ListItemsRequest) (paging.Page[catalog.ItemSummary], error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return paging.Page[catalog.ItemSummary]{}, err
	}
	return q.listItems.Handle(ctx, req)
}

func (q *Queries) fetchItems(ctx context.Context, req ListItemsRequest) (paging.Page[catalog.ItemSummary], error) {
	filter := catalog.NewItemFilter().WithCategories(req.Categories)
	if req.Search != nil {
		filter.WithName(*req.Search)
	}
	filter.WithPriceRange(req.MinPrice, req.MaxPrice)

	page, err := q.items.ListPage(ctx, req.Pageable, filter.Specification())
	if err != nil {
		return paging.Page[catalog.ItemSummary]{}, err
	}
	return paging.Map(page, catalog.ToSummary), nil
}

func nonNegative(value any) error {
	d, _ := value.(*decimal.Decimal)
	if d != nil && d.IsNegative() {
		return validation.NewError("validation_price_negative", "must not be negative")
	}
	return nil
}

func notBelow(lower *decimal.Decimal) validation.RuleFunc {
	return func(value any) error {
		d, _ := value.(*decimal.Decimal)
		if d != nil && lower != nil && d.LessThan(*lower) {
			return validation.NewError("validation_price_range", "must not be less than the minimum price")
		}
		return nil
	}
}
