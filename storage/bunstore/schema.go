package bunstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goliatone/go-auction-query/catalog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to driver ("sqlite3" or "postgres") and wraps the
// connection with the matching bun dialect.
func Open(driver, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("bunstore: open %s: %w", driver, err)
	}

	switch driver {
	case "sqlite3":
		// In memory databases are per connection.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres":
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		sqldb.Close()
		return nil, fmt.Errorf("bunstore: unsupported driver %q", driver)
	}
}

var models = []any{
	(*CategoryRecord)(nil),
	(*ItemRecord)(nil),
	(*ImageRecord)(nil),
	(*BidRecord)(nil),
}

// CreateSchema creates the catalog tables when they do not exist.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("bunstore: create table for %T: %w", model, err)
		}
	}
	return nil
}

// Seed inserts categories, items, images and bids in one transaction.
// Parents must precede their children in categories.
func Seed(ctx context.Context, db *bun.DB, categories []catalog.Category, items []catalog.Item) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, c := range categories {
			if _, err := tx.NewInsert().Model(NewCategoryRecord(c)).Exec(ctx); err != nil {
				return fmt.Errorf("bunstore: seed category %q: %w", c.Name, err)
			}
		}

		for _, item := range items {
			record := NewItemRecord(item)
			if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
				return fmt.Errorf("bunstore: seed item %q: %w", item.Name, err)
			}
			if len(record.Images) > 0 {
				if _, err := tx.NewInsert().Model(&record.Images).Exec(ctx); err != nil {
					return fmt.Errorf("bunstore: seed images of %q: %w", item.Name, err)
				}
			}
			if len(record.Bids) > 0 {
				if _, err := tx.NewInsert().Model(&record.Bids).Exec(ctx); err != nil {
					return fmt.Errorf("bunstore: seed bids of %q: %w", item.Name, err)
				}
			}
		}
		return nil
	})
}
