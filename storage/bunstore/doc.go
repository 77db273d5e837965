// Package bunstore backs the catalog repositories with a SQL database through
// bun and go-repository-bun.
//
// Items are read through a repository.Repository[*ItemRecord]. Relations
// (category with parent, images, bids) are joined by the database, while
// specifications are evaluated in process by catalog.SelectPage, so the same
// filters work unchanged over memstore and bunstore.
//
// Invalidating wraps any repository.Repository and drops cached query results
// by tag after each successful write:
//
//	base := bunstore.NewItemRepository(db)
//	repo := bunstore.NewInvalidating(base, registry, logger, query.TagItems)
//	items := bunstore.NewItemStore(repo)
//
// Open supports the "sqlite3" and "postgres" drivers. CreateSchema and Seed
// are meant for local runs and tests; production schemas are migrated
// elsewhere.
package bunstore
