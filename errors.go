package cellstyle

import "errors"

var (
	// ErrPartialArray is returned when a plain mutator targets a member of a
	// multi-cell array formula.
	ErrPartialArray = errors.New("cannot change part of an array formula")
	// ErrNoExpression is returned by operations that need a formula cell.
	ErrNoExpression = errors.New("cell has no expression")
	// ErrInvalidRule is returned for a conditional rule whose operand count
	// does not match its operator.
	ErrInvalidRule = errors.New("invalid conditional rule")
	// ErrArraySplit is returned when an array formula would overlap part of
	// an existing array.
	ErrArraySplit = errors.New("would split an existing array formula")
	// ErrNotLinked is returned when adjusting the links of an unlinked style.
	ErrNotLinked = errors.New("style is not linked to a sheet")
	// ErrInvalidRange is returned for a range whose end precedes its start
	// or lies at a negative position.
	ErrInvalidRange = errors.New("invalid range")
)
