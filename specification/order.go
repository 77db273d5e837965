package specification

// OrderKind tags which ordering representation is active.
type OrderKind int

const (
	OrderNone OrderKind = iota
	OrderKey
	OrderPredicate
)

func (k OrderKind) String() string {
	switch k {
	case OrderKey:
		return "key"
	case OrderPredicate:
		return "predicate"
	default:
		return "none"
	}
}

// Order holds exactly one ordering directive. Only the field matching Kind is
// set.
type Order[T any] struct {
	kind      OrderKind
	key       func(T) float64
	predicate Predicate[T]
}

func (o Order[T]) Kind() OrderKind { return o.kind }

// Key returns the numeric key extractor when Kind is OrderKey.
func (o Order[T]) Key() (func(T) float64, bool) {
	return o.key, o.kind == OrderKey
}

// Predicate returns the ordering predicate when Kind is OrderPredicate.
func (o Order[T]) Predicate() (Predicate[T], bool) {
	return o.predicate, o.kind == OrderPredicate
}

// Less compares a and b under the active ordering. It reports false for
// OrderNone so a stable sort keeps input order.
func (o Order[T]) Less(a, b T) bool {
	switch o.kind {
	case OrderKey:
		return o.key(a) < o.key(b)
	case OrderPredicate:
		return !o.predicate(a) && o.predicate(b)
	default:
		return false
	}
}
