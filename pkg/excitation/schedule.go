package excitation

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand"
	"time"
)

// Source provides uniformly distributed random numbers.
// *math/rand.Rand implements it.
type Source interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// Int63n returns a number in [0, n).
	Int63n(n int64) int64
}

// NewSource creates a Source seeded from the system entropy pool.
func NewSource() *rand.Rand {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
}

// Schedule is the pre-generated excitation: an input value and how long
// to hold it, for each entry.
type Schedule struct {
	Values []float32
	Holds  []time.Duration
}

// ScheduleLength is the number of entries needed so that even when every
// hold is HoldMin the schedule covers all samples.
func ScheduleLength(cfg *Config) int {
	ticksPerHold := float64(cfg.HoldMin) / float64(cfg.SamplePeriod)
	m := int(math.Ceil(float64(cfg.Samples) / ticksPerHold))
	if m < 1 {
		m = 1
	}
	return m
}

// NewSchedule draws a complete schedule from src.
func NewSchedule(cfg *Config, src Source) *Schedule {
	m := ScheduleLength(cfg)
	s := &Schedule{
		Values: make([]float32, m),
		Holds:  make([]time.Duration, m),
	}
	holdRange := int64(cfg.HoldMax-cfg.HoldMin) + 1
	for i := 0; i < m; i++ {
		s.Values[i] = float32(cfg.InputMin + src.Float64()*(cfg.InputMax-cfg.InputMin))
		s.Holds[i] = cfg.HoldMin + time.Duration(src.Int63n(holdRange))
	}
	return s
}

// Len returns the number of entries.
func (s *Schedule) Len() int {
	return len(s.Values)
}

// Entry returns the entry at i, wrapping around the schedule length.
func (s *Schedule) Entry(i int) (float32, time.Duration) {
	i %= len(s.Values)
	return s.Values[i], s.Holds[i]
}
