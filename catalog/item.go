package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrItemNotFound is returned by repositories when no item has the given ID.
var ErrItemNotFound = errors.New("catalog: item not found")

// Category is a node of the two level category tree. Top level categories
// have no parent.
type Category struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Parent *Category `json:"parent,omitempty"`
}

type ItemImage struct {
	ID       int       `json:"id"`
	ImageURL string    `json:"imageUrl"`
	ItemID   uuid.UUID `json:"itemId"`
}

type Bid struct {
	ID       int             `json:"id"`
	BidderID string          `json:"bidderId"`
	ItemID   uuid.UUID       `json:"itemId"`
	Amount   decimal.Decimal `json:"amount"`
	PlacedAt time.Time       `json:"placedAt"`
}

// Item is an auctioned item with its images and bids loaded.
type Item struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	InitialPrice decimal.Decimal `json:"initialPrice"`
	Category     Category        `json:"category"`
	OwnerID      string          `json:"ownerId"`
	StartTime    time.Time       `json:"startTime"`
	EndTime      time.Time       `json:"endTime"`
	IsActive     bool            `json:"isActive"`
	Images       []ItemImage     `json:"images"`
	Bids         []Bid           `json:"bids"`
}

// HighestBid returns the largest bid amount, if any bid was placed.
func (i Item) HighestBid() (decimal.Decimal, bool) {
	if len(i.Bids) == 0 {
		return decimal.Zero, false
	}
	highest := i.Bids[0].Amount
	for _, b := range i.Bids[1:] {
		if b.Amount.GreaterThan(highest) {
			highest = b.Amount
		}
	}
	return highest, true
}

// CurrentPrice is the highest bid, or the initial price without bids.
func (i Item) CurrentPrice() decimal.Decimal {
	if highest, ok := i.HighestBid(); ok {
		return highest
	}
	return i.InitialPrice
}

// MainImage returns the first image, or nil.
func (i Item) MainImage() *ItemImage {
	if len(i.Images) == 0 {
		return nil
	}
	img := i.Images[0]
	return &img
}

// HasBidFrom reports whether bidder placed at least one bid.
func (i Item) HasBidFrom(bidder string) bool {
	for _, b := range i.Bids {
		if b.BidderID == bidder {
			return true
		}
	}
	return false
}

// Running reports whether the auction window contains now.
func (i Item) Running(now time.Time) bool {
	return !i.StartTime.After(now) && !i.EndTime.Before(now)
}
