package jvector

import "errors"

var (
	// ErrInvalidDimension is returned when an index is created with a
	// non-positive vector dimension.
	ErrInvalidDimension = errors.New("dimension must be positive")
)
