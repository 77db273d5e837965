package query

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/paging"
)

// UserItemsRequest pages through the items of one user.
type UserItemsRequest struct {
	UserID   string
	Pageable paging.Pageable
}

func (r UserItemsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	)
}

// ActiveItems lists the running auctions a user owns.
func (q *Queries) ActiveItems(ctx context.Context, req UserItemsRequest) (paging.Page[catalog.ActiveUserItem], error) {
	filter := catalog.NewItemFilter().IsActive().OwnedBy(req.UserID)
	return userPage(ctx, q, req, filter, q.activeMapper())
}

// SoldItems lists the closed auctions a user owns that received bids.
func (q *Queries) SoldItems(ctx context.Context, req UserItemsRequest) (paging.Page[catalog.SoldUserItem], error) {
	filter := catalog.NewItemFilter().IsSold().OwnedBy(req.UserID)
	return userPage(ctx, q, req, filter, catalog.ToSoldUserItem)
}

// BidItems lists the running auctions a user bid on.
func (q *Queries) BidItems(ctx context.Context, req UserItemsRequest) (paging.Page[catalog.ActiveUserItem], error) {
	filter := catalog.NewItemFilter().IsActive().BidBy(req.UserID)
	return userPage(ctx, q, req, filter, q.activeMapper())
}

// BiddingHistory returns the items user bid on at or after since, by name.
func (q *Queries) BiddingHistory(ctx context.Context, user string, since time.Time) ([]catalog.ItemSummary, error) {
	if err := validation.Validate(user, validation.Required); err != nil {
		return nil, validation.Errors{"userId": err}
	}

	items, err := q.items.ListAll(ctx, catalog.NewItemFilter().BidBySince(user, since).Specification())
	if err != nil {
		return nil, err
	}
	return catalog.ToSummaries(items), nil
}

func (q *Queries) activeMapper() func(catalog.Item) catalog.ActiveUserItem {
	now := q.now()
	return func(i catalog.Item) catalog.ActiveUserItem {
		return catalog.ToActiveUserItem(i, now)
	}
}

func userPage[T any](ctx context.Context, q *Queries, req UserItemsRequest, filter *catalog.ItemFilter, mapper func(catalog.Item) T) (paging.Page[T], error) {
	if err := req.Validate(); err != nil {
		return paging.Page[T]{}, err
	}
	if req.Pageable.IsZero() {
		req.Pageable = paging.Default()
	}

	page, err := q.items.ListPage(ctx, req.Pageable, filter.Specification())
	if err != nil {
		return paging.Page[T]{}, err
	}
	return paging.Map(page, mapper), nil
}
