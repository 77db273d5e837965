// Package query is the read side of the auction marketplace.
//
// Each query turns its request into a catalog.ItemFilter, hands the resulting
// specification to a repository and maps the records to read models. Item
// listings, the category tree and the price range are served cache-aside
// through querycache, keyed by a deterministic rendering of the request:
//
//	list_items::p=2::s=9::q=lamp::c=furniture,lighting::min=10
//
// Requests are normalized and validated before any cache or repository I/O.
package query
