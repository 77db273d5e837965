// Package catalog holds the marketplace entities (items, categories, bids),
// the ItemFilter facade used to describe item queries, the read models handed
// to callers and the repository ports the query handlers depend on.
package catalog
