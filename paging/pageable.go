package paging

import (
	"errors"
	"fmt"
)

const (
	MinPageNumber = 1
	MinPageSize   = 1
	MaxPageSize   = 64

	DefaultPageNumber = 1
	DefaultPageSize   = 9
)

// ErrOutOfRange is matched by every RangeError.
var ErrOutOfRange = errors.New("paging: value out of range")

// RangeError reports a paging parameter outside its allowed bounds.
type RangeError struct {
	Field   string
	Value   int
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("paging: %s %d out of range: %s", e.Field, e.Value, e.Message)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Pageable is an immutable offset page request.
type Pageable struct {
	number int
	size   int
}

// Of returns a Pageable for the given page number and size.
func Of(number, size int) (Pageable, error) {
	if number < MinPageNumber {
		return Pageable{}, &RangeError{
			Field:   "pageNumber",
			Value:   number,
			Message: fmt.Sprintf("must be greater than or equal to %d", MinPageNumber),
		}
	}
	if size < MinPageSize {
		return Pageable{}, &RangeError{
			Field:   "pageSize",
			Value:   size,
			Message: fmt.Sprintf("must be greater than or equal to %d", MinPageSize),
		}
	}
	if size > MaxPageSize {
		return Pageable{}, &RangeError{
			Field:   "pageSize",
			Value:   size,
			Message: fmt.Sprintf("must be less than or equal to %d", MaxPageSize),
		}
	}
	return Pageable{number: number, size: size}, nil
}

// OfNumber returns a Pageable for number with the default size.
func OfNumber(number int) (Pageable, error) {
	return Of(number, DefaultPageSize)
}

// Default returns the first page with the default size.
func Default() Pageable {
	return Pageable{number: DefaultPageNumber, size: DefaultPageSize}
}

func (p Pageable) Number() int { return p.number }

func (p Pageable) Size() int { return p.size }

// Skip is the number of records preceding this page.
func (p Pageable) Skip() int {
	return (p.number - 1) * p.size
}

// IsZero reports whether p was never constructed through Of.
func (p Pageable) IsZero() bool {
	return p.size == 0
}
