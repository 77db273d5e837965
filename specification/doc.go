// Package specification provides a generic, composable description of a
// filter over a typed collection, with an optional ordering and a result cap.
//
// # Composition
//
// A Specification starts as "accept everything". Each combinator replaces the
// running predicate with a combination of the old one and its argument, in
// call order:
//
//	spec := specification.New[Item]().
//		And(isActive).
//		Or(isFeatured) // (true && isActive) || isFeatured
//
// This is a left fold, not operator precedence. Callers that need a specific
// grouping sequence their calls accordingly, or go through a facade that fixes
// the order once.
//
// # Ordering and cap
//
// OrderBy and OrderByPredicate are mutually exclusive: the last call wins.
// Take fails with ErrTakeOutOfRange instead of clamping.
//
// # Execution
//
// Repositories read Predicate, Ordering and Limit and apply them however their
// backend allows. Select is the reference in-process evaluator.
//
// A Specification is not safe for concurrent mutation. Build one per request.
package specification
