package csg

import (
	"errors"
	"fmt"
)

// ErrInvalidLoop is returned when an input loop cannot describe a region.
var ErrInvalidLoop = errors.New("invalid loop")

// InvalidLoopError identifies the offending loop and point.
type InvalidLoopError struct {
	Loop   int
	Index  int
	Reason string
}

func (e *InvalidLoopError) Error() string {
	return fmt.Sprintf("%v: loop %d, point %d: %s", ErrInvalidLoop, e.Loop, e.Index, e.Reason)
}

func (e *InvalidLoopError) Unwrap() error {
	return ErrInvalidLoop
}
