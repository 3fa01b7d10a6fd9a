// Package excitation generates a randomized piecewise-constant motor input
// and samples the motor angle at a fixed period.
package excitation

import (
	"time"

	"github.com/robotalks/sysid.go/pkg/hal"
)

// Run excites motor with sched and fills rec, one sample per SamplePeriod,
// until rec is full. It always completes and returns the elapsed time.
//
// The loop body neither allocates nor draws random numbers; sched and rec
// must be prepared beforehand.
func Run(cfg *Config, sched *Schedule, motor hal.Motor, clock hal.Clock, rec *Record) time.Duration {
	n, m := rec.Len(), sched.Len()
	input, hold := sched.Values[0], sched.Holds[0]

	start := clock.Now()
	lastChange, lastSample := start, start

	motor.Brake(false)
	motor.SetSpeed(input)

	for i := 0; i < n; i++ {
		rec.Input[i] = input
		rec.Angle[i] = motor.ReadAngle()

		if now := clock.Now(); now-lastChange >= hold {
			lastChange = now
			// Entries are indexed by tick, wrapping over the schedule.
			input, hold = sched.Values[i%m], sched.Holds[i%m]
			motor.SetSpeed(input)
		}

		// Anchor on the scheduled tick, not on when the wait returned.
		lastSample += cfg.SamplePeriod
		hal.WaitUntil(clock, lastSample)
	}

	motor.SetSpeed(0)
	motor.Brake(true)
	return clock.Now() - start
}

// Acquire validates cfg, pre-generates the schedule from src and runs a
// complete acquisition into a new Record.
func Acquire(cfg *Config, src Source, motor hal.Motor, clock hal.Clock) (*Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sched := NewSchedule(cfg, src)
	rec := NewRecord(cfg.Samples)
	Run(cfg, sched, motor, clock, rec)
	return rec, nil
}
