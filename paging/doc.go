// Package paging holds the offset pagination value objects shared by every
// catalog read path.
//
// A Pageable is validated at construction (page number >= 1, size in [1, 64])
// and never changes afterwards. A Page carries its elements plus totalElements,
// totalPages, isEmpty and isLastPage. Those scalars are either computed from a
// live Pageable (NewPage) or supplied frozen (NewFrozenPage). Cached pages and
// pages mapped to another element type always take the frozen path, so their
// metadata never drifts from what the repository originally produced.
package paging
