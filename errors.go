package melpaint

import "errors"

var (
	// ErrInvalidLength is returned when a transform is asked to work on a
	// length that is not a power of two.
	ErrInvalidLength = errors.New("length is not a power of two")

	// ErrDimensionMismatch is returned for incompatible matrix shapes and for
	// spectrograms whose frames differ in bin count.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrSingularMatrix is returned when Gaussian elimination meets a zero pivot.
	ErrSingularMatrix = errors.New("singular matrix")

	// ErrInvalidParameter is returned for non-positive sizes, hops, steps and
	// similar configuration values.
	ErrInvalidParameter = errors.New("invalid parameter")
)
