package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMaxDegree is returned when the degree bound is not positive.
	ErrInvalidMaxDegree = errors.New("maxDegree must be positive")
	// ErrInvalidBeamWidth is returned when the construction beam width is
	// not positive.
	ErrInvalidBeamWidth = errors.New("beamWidth must be positive")
	// ErrInvalidOverflowFactor is returned when the overflow factor is
	// below 1.
	ErrInvalidOverflowFactor = errors.New("overflowFactor must be >= 1.0")
	// ErrInvalidAlpha is returned when the diversity slack is below 1.
	ErrInvalidAlpha = errors.New("alpha must be >= 1.0")
	// ErrNilVectors is returned when no vector source is supplied.
	ErrNilVectors = errors.New("vector source must not be nil")
	// ErrNilScorer is returned when no similarity scorer is supplied.
	ErrNilScorer = errors.New("scorer must not be nil")
	// ErrInvalidK is returned when the requested result count is not
	// positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrNodeNotFound indicates an ordinal with no registered node.
type ErrNodeNotFound struct {
	Node int32
}

func (e *ErrNodeNotFound) Error() string {
	return fmt.Sprintf("node not found: %d", e.Node)
}
