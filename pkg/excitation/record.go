package excitation

import (
	"errors"
	"fmt"
)

// ErrRecordMismatch indicates the input and angle arrays differ in length.
var ErrRecordMismatch = errors.New("record length mismatch")

// Record is the captured experiment: applied input and measured angle,
// index-aligned by sample number.
type Record struct {
	Input []float32
	Angle []float32
}

// NewRecord allocates a Record for n samples.
func NewRecord(n int) *Record {
	return &Record{
		Input: make([]float32, n),
		Angle: make([]float32, n),
	}
}

// Len returns the number of samples.
func (r *Record) Len() int {
	return len(r.Input)
}

// Validate checks array lengths agree and inputs stay within [min, max].
func (r *Record) Validate(min, max float32) error {
	if len(r.Input) != len(r.Angle) {
		return fmt.Errorf("%w: %d inputs, %d angles", ErrRecordMismatch, len(r.Input), len(r.Angle))
	}
	for i, v := range r.Input {
		if v < min || v > max {
			return fmt.Errorf("input[%d] = %g out of range [%g, %g]", i, v, min, max)
		}
	}
	return nil
}
