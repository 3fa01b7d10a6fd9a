package session

import (
	"context"
	"time"

	"github.com/robotalks/sysid.go/pkg/hal"
)

// Indicator half periods.
const (
	SuccessHalfPeriod = 200 * time.Millisecond
	FailureHalfPeriod = 1000 * time.Millisecond
)

// Blinker toggles the indicator forever: fast after a successful
// session, slow otherwise.
type Blinker struct {
	Indicator  hal.Indicator
	Clock      hal.Clock
	HalfPeriod time.Duration
}

// NewBlinker creates a Blinker reflecting the outcome of s.
func NewBlinker(s *Session, ind hal.Indicator) *Blinker {
	b := &Blinker{Indicator: ind, Clock: s.Clock, HalfPeriod: FailureHalfPeriod}
	if s.Outcome() == Success {
		b.HalfPeriod = SuccessHalfPeriod
	}
	return b
}

// Name implements Named.
func (b *Blinker) Name() string {
	return "blinker"
}

// Run implements Runnable.
func (b *Blinker) Run(ctx context.Context) error {
	defer b.Indicator.Set(false)
	for on := true; ; on = !on {
		b.Indicator.Set(on)
		if err := hal.Delay(ctx, b.Clock, b.HalfPeriod); err != nil {
			return err
		}
	}
}
