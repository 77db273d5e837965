package catalog

import (
	"strings"
	"time"

	"github.com/goliatone/go-auction-query/specification"
	"github.com/shopspring/decimal"
)

// ItemFilter is a named facade over Specification[Item].
//
// Methods fold into the running predicate in call order, so the order below
// matters: category methods come first (WithCategory then WithOrCategory),
// then WithName, then the remaining And filters. Anything else changes the
// grouping, e.g. WithName followed by WithOrCategory matches every item in
// that category regardless of name.
type ItemFilter struct {
	spec *specification.Specification[Item]
}

func NewItemFilter() *ItemFilter {
	return &ItemFilter{spec: specification.New[Item]()}
}

// WithCategories applies WithCategory for the first name and WithOrCategory
// for the rest. An empty list adds nothing.
func (f *ItemFilter) WithCategories(names []string) *ItemFilter {
	for i, name := range names {
		if i == 0 {
			f.WithCategory(name)
		} else {
			f.WithOrCategory(name)
		}
	}
	return f
}

func (f *ItemFilter) WithCategory(name string) *ItemFilter {
	f.spec.And(inCategory(name))
	return f
}

func (f *ItemFilter) WithOrCategory(name string) *ItemFilter {
	f.spec.Or(inCategory(name))
	return f
}

// WithName matches items whose name contains search, ignoring case.
func (f *ItemFilter) WithName(search string) *ItemFilter {
	needle := strings.ToLower(search)
	f.spec.And(func(i Item) bool {
		return strings.Contains(strings.ToLower(i.Name), needle)
	})
	return f
}

// WithPriceRange bounds the current price. Nil bounds are open.
func (f *ItemFilter) WithPriceRange(min, max *decimal.Decimal) *ItemFilter {
	if min != nil {
		lo := *min
		f.spec.And(func(i Item) bool { return i.CurrentPrice().GreaterThanOrEqual(lo) })
	}
	if max != nil {
		hi := *max
		f.spec.And(func(i Item) bool { return i.CurrentPrice().LessThanOrEqual(hi) })
	}
	return f
}

func (f *ItemFilter) IsActive() *ItemFilter {
	f.spec.And(func(i Item) bool { return i.IsActive })
	return f
}

// IsSold matches closed auctions that received at least one bid.
func (f *ItemFilter) IsSold() *ItemFilter {
	f.spec.And(func(i Item) bool { return !i.IsActive && len(i.Bids) > 0 })
	return f
}

func (f *ItemFilter) OwnedBy(user string) *ItemFilter {
	f.spec.And(func(i Item) bool { return i.OwnerID == user })
	return f
}

func (f *ItemFilter) BidBy(user string) *ItemFilter {
	f.spec.And(func(i Item) bool { return i.HasBidFrom(user) })
	return f
}

// BidBySince matches items where user placed a bid at or after since.
func (f *ItemFilter) BidBySince(user string, since time.Time) *ItemFilter {
	f.spec.And(func(i Item) bool {
		for _, b := range i.Bids {
			if b.BidderID == user && !b.PlacedAt.Before(since) {
				return true
			}
		}
		return false
	})
	return f
}

// RunningAt matches items whose auction window contains now.
func (f *ItemFilter) RunningAt(now time.Time) *ItemFilter {
	f.spec.And(func(i Item) bool { return i.Running(now) })
	return f
}

func (f *ItemFilter) HasBids() *ItemFilter {
	f.spec.And(func(i Item) bool { return len(i.Bids) > 0 })
	return f
}

// Specification returns the underlying builder so callers can add ordering
// or a cap.
func (f *ItemFilter) Specification() *specification.Specification[Item] {
	return f.spec
}

func inCategory(name string) specification.Predicate[Item] {
	return func(i Item) bool { return strings.EqualFold(i.Category.Name, name) }
}
