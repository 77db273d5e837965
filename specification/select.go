package specification

import "sort"

// Select evaluates spec over items in process: it filters, stable sorts by the
// specification ordering (or fallback when none is set and fallback is not
// nil) and applies the cap. items is not modified.
func Select[T any](items []T, spec *Specification[T], fallback func(a, b T) bool) []T {
	if spec == nil {
		spec = New[T]()
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if spec.IsSatisfiedBy(item) {
			matched = append(matched, item)
		}
	}

	order := spec.Ordering()
	switch {
	case order.Kind() != OrderNone:
		sort.SliceStable(matched, func(i, j int) bool { return order.Less(matched[i], matched[j]) })
	case fallback != nil:
		sort.SliceStable(matched, func(i, j int) bool { return fallback(matched[i], matched[j]) })
	}

	if len(matched) > spec.Limit() {
		matched = matched[:spec.Limit()]
	}
	return matched
}
