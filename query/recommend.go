package query

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-auction-query/catalog"
	"go.uber.org/zap"
)

const (
	// MaxRecommendations bounds the count of a recommendation request and the
	// pool regular recommendations are drawn from.
	MaxRecommendations = 64
	// historyMonths is how far back a user's bids shape their recommendations.
	historyMonths = 3
)

// ErrNotEnoughItems is returned when fewer items qualify than were asked for.
var ErrNotEnoughItems = errors.New("query: not enough items to recommend")

// RecommendRequest asks for Count recommendations. An empty UserID asks for
// regular recommendations.
type RecommendRequest struct {
	UserID string
	Count  int
}

func (r RecommendRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Count, validation.Required, validation.Min(1), validation.Max(MaxRecommendations)),
	)
}

// Recommend returns item recommendations. Users with bids in the last three
// months get the most bid on running items of the category they bid on most;
// everyone else gets a random draw among the most bid on running items.
func (q *Queries) Recommend(ctx context.Context, req RecommendRequest) ([]catalog.ItemSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.UserID == "" {
		return q.recommendRegular(ctx, req.Count)
	}
	return q.recommendForUser(ctx, req.UserID, req.Count)
}

func (q *Queries) recommendRegular(ctx context.Context, count int) ([]catalog.ItemSummary, error) {
	spec, err := catalog.NewItemFilter().
		IsActive().
		RunningAt(q.now()).
		HasBids().
		Specification().
		OrderBy(mostBidFirst).
		Take(MaxRecommendations)
	if err != nil {
		return nil, err
	}

	items, err := q.items.ListAll(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(items) < count {
		return nil, ErrNotEnoughItems
	}

	q.shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	return catalog.ToSummaries(items[:count]), nil
}

func (q *Queries) recommendForUser(ctx context.Context, user string, count int) ([]catalog.ItemSummary, error) {
	now := q.now()

	history, err := q.items.ListAll(ctx, catalog.NewItemFilter().
		BidBySince(user, now.AddDate(0, -historyMonths, 0)).
		Specification())
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		q.logger.Debug("no recent bids, using regular recommendations", zap.String("user", user))
		return q.recommendRegular(ctx, count)
	}

	spec, err := catalog.NewItemFilter().
		WithCategory(favouriteCategory(history)).
		IsActive().
		RunningAt(now).
		Specification().
		OrderBy(mostBidFirst).
		Take(count)
	if err != nil {
		return nil, err
	}

	items, err := q.items.ListAll(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(items) < count {
		return nil, ErrNotEnoughItems
	}
	return catalog.ToSummaries(items), nil
}

func mostBidFirst(i catalog.Item) float64 {
	return -float64(len(i.Bids))
}

// favouriteCategory is the most frequent category name. On a tie the
// category that reached the top count first wins.
func favouriteCategory(items []catalog.Item) string {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, item := range items {
		name := item.Category.Name
		counts[name]++
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
