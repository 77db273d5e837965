package bunstore

import (
	"time"

	"github.com/goliatone/go-auction-query/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type CategoryRecord struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID       int             `bun:"id,pk,autoincrement"`
	Name     string          `bun:"name,notnull,unique"`
	ParentID *int            `bun:"parent_id"`
	Parent   *CategoryRecord `bun:"rel:belongs-to,join:parent_id=id"`
}

type ItemRecord struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	Name         string          `bun:"name,notnull"`
	Description  string          `bun:"description"`
	InitialPrice decimal.Decimal `bun:"initial_price,type:numeric,notnull"`
	CategoryID   int             `bun:"category_id,notnull"`
	Category     *CategoryRecord `bun:"rel:belongs-to,join:category_id=id"`
	OwnerID      string          `bun:"owner_id,notnull"`
	StartTime    time.Time       `bun:"start_time,notnull"`
	EndTime      time.Time       `bun:"end_time,notnull"`
	IsActive     bool            `bun:"is_active,notnull"`
	Images       []*ImageRecord  `bun:"rel:has-many,join:id=item_id"`
	Bids         []*BidRecord    `bun:"rel:has-many,join:id=item_id"`
}

type ImageRecord struct {
	bun.BaseModel `bun:"table:item_images,alias:img"`

	ID       int       `bun:"id,pk,autoincrement"`
	ImageURL string    `bun:"image_url,notnull"`
	ItemID   uuid.UUID `bun:"item_id,type:uuid,notnull"`
}

type BidRecord struct {
	bun.BaseModel `bun:"table:bids,alias:b"`

	ID       int             `bun:"id,pk,autoincrement"`
	BidderID string          `bun:"bidder_id,notnull"`
	ItemID   uuid.UUID       `bun:"item_id,type:uuid,notnull"`
	Amount   decimal.Decimal `bun:"amount,type:numeric,notnull"`
	PlacedAt time.Time       `bun:"placed_at,notnull"`
}

func (r *CategoryRecord) toDomain() catalog.Category {
	c := catalog.Category{ID: r.ID, Name: r.Name}
	if r.Parent != nil {
		parent := r.Parent.toDomain()
		c.Parent = &parent
	}
	return c
}

func (r *ItemRecord) toDomain() catalog.Item {
	item := catalog.Item{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		InitialPrice: r.InitialPrice,
		OwnerID:      r.OwnerID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		IsActive:     r.IsActive,
		Images:       make([]catalog.ItemImage, 0, len(r.Images)),
		Bids:         make([]catalog.Bid, 0, len(r.Bids)),
	}
	if r.Category != nil {
		item.Category = r.Category.toDomain()
	}
	for _, img := range r.Images {
		item.Images = append(item.Images, catalog.ItemImage{ID: img.ID, ImageURL: img.ImageURL, ItemID: img.ItemID})
	}
	for _, b := range r.Bids {
		item.Bids = append(item.Bids, catalog.Bid{
			ID:       b.ID,
			BidderID: b.BidderID,
			ItemID:   b.ItemID,
			Amount:   b.Amount,
			PlacedAt: b.PlacedAt,
		})
	}
	return item
}

// NewItemRecord flattens a catalog item into its row and child rows.
func NewItemRecord(item catalog.Item) *ItemRecord {
	r := &ItemRecord{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		InitialPrice: item.InitialPrice,
		CategoryID:   item.Category.ID,
		OwnerID:      item.OwnerID,
		StartTime:    item.StartTime,
		EndTime:      item.EndTime,
		IsActive:     item.IsActive,
	}
	for _, img := range item.Images {
		r.Images = append(r.Images, &ImageRecord{ID: img.ID, ImageURL: img.ImageURL, ItemID: item.ID})
	}
	for _, b := range item.Bids {
		r.Bids = append(r.Bids, &BidRecord{
			ID:       b.ID,
			BidderID: b.BidderID,
			ItemID:   item.ID,
			Amount:   b.Amount,
			PlacedAt: b.PlacedAt,
		})
	}
	return r
}

func NewCategoryRecord(c catalog.Category) *CategoryRecord {
	r := &CategoryRecord{ID: c.ID, Name: c.Name}
	if c.Parent != nil {
		id := c.Parent.ID
		r.ParentID = &id
	}
	return r
}
