package testsupport

import (
	"time"

	"github.com/goliatone/go-auction-query/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SampleNow is the reference clock of the sample catalog.
var SampleNow = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

// SampleItemID returns the stable ID of a sample item by name.
func SampleItemID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("auction/item/"+name))
}

// SampleCategories returns two parents with two children each.
func SampleCategories() []catalog.Category {
	home := catalog.Category{ID: 1, Name: "Home"}
	music := catalog.Category{ID: 4, Name: "Music"}
	return []catalog.Category{
		home,
		{ID: 2, Name: "Furniture", Parent: &home},
		{ID: 3, Name: "Lighting", Parent: &home},
		music,
		{ID: 5, Name: "Vinyl", Parent: &music},
		{ID: 6, Name: "Instruments", Parent: &music},
	}
}

// SampleCatalog returns eight items relative to now:
//
//	Oak Chair     Furniture    ana  active  40   bids bo 45, cy 50
//	Pine Table    Furniture    ana  active  120  bids bo 150
//	Brass Lamp    Lighting     bo   active  60   bids ana 65, cy 70, ana 80
//	Desk Lamp     Lighting     bo   active  25
//	Jazz Vinyl    Vinyl        cy   closed  15   bids ana 30
//	Old Guitar    Instruments  cy   closed  300
//	Walnut Shelf  Furniture    bo   active  90   bids dan 95
//	Floor Lamp    Lighting     ana  active  70   starts tomorrow
func SampleCatalog(now time.Time) []catalog.Item {
	categories := SampleCategories()
	furniture, lighting := categories[1], categories[2]
	vinyl, instruments := categories[4], categories[5]

	running := func(name string, category catalog.Category, owner string, price int64, bids ...catalog.Bid) catalog.Item {
		return sampleItem(name, category, owner, price, true, now.AddDate(0, 0, -7), now.AddDate(0, 0, 3), bids)
	}
	closed := func(name string, category catalog.Category, owner string, price int64, bids ...catalog.Bid) catalog.Item {
		return sampleItem(name, category, owner, price, false, now.AddDate(0, 0, -20), now.AddDate(0, 0, -1), bids)
	}
	bid := func(bidder string, amount int64, ago time.Duration) catalog.Bid {
		return catalog.Bid{BidderID: bidder, Amount: decimal.NewFromInt(amount), PlacedAt: now.Add(-ago)}
	}

	floor := sampleItem("Floor Lamp", lighting, "ana", 70, true, now.AddDate(0, 0, 1), now.AddDate(0, 0, 8), nil)

	items := []catalog.Item{
		running("Oak Chair", furniture, "ana", 40, bid("bo", 45, 48*time.Hour), bid("cy", 50, 24*time.Hour)),
		running("Pine Table", furniture, "ana", 120, bid("bo", 150, time.Hour)),
		running("Brass Lamp", lighting, "bo", 60, bid("ana", 65, 72*time.Hour), bid("cy", 70, 48*time.Hour), bid("ana", 80, 24*time.Hour)),
		running("Desk Lamp", lighting, "bo", 25),
		closed("Jazz Vinyl", vinyl, "cy", 15, bid("ana", 30, 240*time.Hour)),
		closed("Old Guitar", instruments, "cy", 300),
		running("Walnut Shelf", furniture, "bo", 90, bid("dan", 95, 3*time.Hour)),
		floor,
	}

	bidID := 1
	for i := range items {
		for j := range items[i].Bids {
			items[i].Bids[j].ID = bidID
			items[i].Bids[j].ItemID = items[i].ID
			bidID++
		}
	}
	return items
}

func sampleItem(name string, category catalog.Category, owner string, price int64, active bool, start, end time.Time, bids []catalog.Bid) catalog.Item {
	id := SampleItemID(name)
	return catalog.Item{
		ID:           id,
		Name:         name,
		Description:  name + " in good condition.",
		InitialPrice: decimal.NewFromInt(price),
		Category:     category,
		OwnerID:      owner,
		StartTime:    start,
		EndTime:      end,
		IsActive:     active,
		Images:       []catalog.ItemImage{{ID: int(id.ID() % 10000), ImageURL: "https://img.example.com/" + id.String() + ".jpg", ItemID: id}},
		Bids:         bids,
	}
}
