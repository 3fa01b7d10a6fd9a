package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrBadStartMarker indicates the stream doesn't begin with StartMarker.
	ErrBadStartMarker = errors.New("bad start marker")
	// ErrBadEndMarker indicates the stream doesn't end with EndMarker.
	// The arrays preceding it may still be valid.
	ErrBadEndMarker = errors.New("bad end marker")
)

// SizeError indicates a frame of unexpected size.
type SizeError struct {
	Expected int
	Actual   int
}

// Error implements error.
func (e *SizeError) Error() string {
	return fmt.Sprintf("frame size %d, expected %d", e.Actual, e.Expected)
}
