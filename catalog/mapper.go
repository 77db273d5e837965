package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemSummary is the listing view of an item.
type ItemSummary struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	InitialPrice decimal.Decimal `json:"initialPrice"`
	MainImage    *ItemImage      `json:"mainImage"`
}

// ItemInfo is the detail view of an item.
type ItemInfo struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	TimeLeft     string          `json:"timeLeft"`
	IsActive     bool            `json:"isActive"`
	Images       []ItemImage     `json:"images"`
}

// ActiveUserItem is an item a user owns or bids on while its auction runs.
type ActiveUserItem struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	TimeLeft     string          `json:"timeLeft"`
	InitialPrice decimal.Decimal `json:"initialPrice"`
	NumberOfBids int             `json:"numberOfBids"`
	HighestBid   decimal.Decimal `json:"highestBid"`
	MainImage    *ItemImage      `json:"mainImage"`
}

// SoldUserItem is a closed auction of a user that received bids.
type SoldUserItem struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	InitialPrice decimal.Decimal `json:"initialPrice"`
	NumberOfBids int             `json:"numberOfBids"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
	MainImage    *ItemImage      `json:"mainImage"`
}

func ToSummary(i Item) ItemSummary {
	return ItemSummary{
		ID:           i.ID,
		Name:         i.Name,
		InitialPrice: i.InitialPrice,
		MainImage:    i.MainImage(),
	}
}

func ToSummaries(items []Item) []ItemSummary {
	out := make([]ItemSummary, len(items))
	for n, i := range items {
		out[n] = ToSummary(i)
	}
	return out
}

func ToInfo(i Item, now time.Time) ItemInfo {
	images := i.Images
	if images == nil {
		images = []ItemImage{}
	}
	return ItemInfo{
		ID:           i.ID,
		Name:         i.Name,
		Description:  i.Description,
		CurrentPrice: i.CurrentPrice(),
		TimeLeft:     TimeRemaining(i.EndTime, now),
		IsActive:     i.IsActive,
		Images:       images,
	}
}

// ToActiveUserItem uses the current price as the highest bid when the item
// has no bids yet.
func ToActiveUserItem(i Item, now time.Time) ActiveUserItem {
	return ActiveUserItem{
		ID:           i.ID,
		Name:         i.Name,
		TimeLeft:     TimeRemaining(i.EndTime, now),
		InitialPrice: i.InitialPrice,
		NumberOfBids: len(i.Bids),
		HighestBid:   i.CurrentPrice(),
		MainImage:    i.MainImage(),
	}
}

// ToSoldUserItem reports a zero final price when the item has no bids.
func ToSoldUserItem(i Item) SoldUserItem {
	final, _ := i.HighestBid()
	return SoldUserItem{
		ID:           i.ID,
		Name:         i.Name,
		InitialPrice: i.InitialPrice,
		NumberOfBids: len(i.Bids),
		FinalPrice:   final,
		MainImage:    i.MainImage(),
	}
}
