package specification

import (
	"errors"
	"fmt"
	"math"
)

// MaxTake bounds Take and is the cap of a fresh Specification.
const MaxTake = math.MaxUint16

// ErrTakeOutOfRange is returned by Take for counts outside [0, MaxTake].
var ErrTakeOutOfRange = errors.New("specification: take out of range")

// Predicate is a boolean test over T.
type Predicate[T any] func(T) bool

// Specification is a single-writer builder describing which elements of a
// collection to select, how to order them and how many to keep. It never
// executes against data.
//
// Combinators fold left in call order: after And(A) the running predicate P
// becomes P && A, and a following Or(B) makes it (P && A) || B.
type Specification[T any] struct {
	predicate Predicate[T]
	order     Order[T]
	limit     int
}

// New returns a Specification that accepts everything, has no ordering and
// keeps up to MaxTake elements.
func New[T any]() *Specification[T] {
	return &Specification[T]{
		predicate: func(T) bool { return true },
		limit:     MaxTake,
	}
}

func (s *Specification[T]) And(p Predicate[T]) *Specification[T] {
	prev := s.predicate
	s.predicate = func(v T) bool { return prev(v) && p(v) }
	return s
}

func (s *Specification[T]) AndNot(p Predicate[T]) *Specification[T] {
	prev := s.predicate
	s.predicate = func(v T) bool { return prev(v) && !p(v) }
	return s
}

func (s *Specification[T]) Or(p Predicate[T]) *Specification[T] {
	prev := s.predicate
	s.predicate = func(v T) bool { return prev(v) || p(v) }
	return s
}

func (s *Specification[T]) OrNot(p Predicate[T]) *Specification[T] {
	prev := s.predicate
	s.predicate = func(v T) bool { return prev(v) || !p(v) }
	return s
}

// Not negates the running predicate.
func (s *Specification[T]) Not() *Specification[T] {
	prev := s.predicate
	s.predicate = func(v T) bool { return !prev(v) }
	return s
}

// OrderBy orders ascending by a numeric key, replacing any previous ordering.
func (s *Specification[T]) OrderBy(key func(T) float64) *Specification[T] {
	s.order = Order[T]{kind: OrderKey, key: key}
	return s
}

// OrderByPredicate orders elements failing p before elements satisfying it,
// replacing any previous ordering.
func (s *Specification[T]) OrderByPredicate(p Predicate[T]) *Specification[T] {
	s.order = Order[T]{kind: OrderPredicate, predicate: p}
	return s
}

// Take caps the number of selected elements.
func (s *Specification[T]) Take(n int) (*Specification[T], error) {
	if n < 0 || n > MaxTake {
		return s, fmt.Errorf("%w: %d not in [0, %d]", ErrTakeOutOfRange, n, MaxTake)
	}
	s.limit = n
	return s, nil
}

// Predicate returns the composed boolean test.
func (s *Specification[T]) Predicate() Predicate[T] {
	return s.predicate
}

func (s *Specification[T]) IsSatisfiedBy(v T) bool {
	return s.predicate(v)
}

func (s *Specification[T]) Ordering() Order[T] {
	return s.order
}

func (s *Specification[T]) Limit() int {
	return s.limit
}
