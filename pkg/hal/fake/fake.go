// Package fake provides deterministic in-memory hal implementations
// for tests and dry runs.
package fake

import (
	"time"
)

// Clock is a manual clock which advances by Step on every Yield.
type Clock struct {
	Step    time.Duration
	OnYield func(now time.Duration)

	now    time.Duration
	yields int
}

// Now implements hal.Clock.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Yield implements hal.Clock.
func (c *Clock) Yield() {
	c.yields++
	c.now += c.Step
	if fn := c.OnYield; fn != nil {
		fn(c.now)
	}
}

// Advance moves the clock forward without yielding.
func (c *Clock) Advance(d time.Duration) {
	c.now += d
}

// Yields returns how many times Yield was called.
func (c *Clock) Yields() int {
	return c.yields
}

// Motor records commands and replays angles from AngleFunc.
type Motor struct {
	AngleFunc func() float32
	BeginErr  error

	Began  bool
	Braked bool
	Speed  float32
	Speeds []float32
	Brakes []bool
	Reads  int
}

// Begin implements hal.Motor.
func (m *Motor) Begin() error {
	m.Began = true
	return m.BeginErr
}

// SetSpeed implements hal.Motor.
func (m *Motor) SetSpeed(v float32) {
	m.Speed = v
	m.Speeds = append(m.Speeds, v)
}

// Brake implements hal.Motor.
func (m *Motor) Brake(engaged bool) {
	m.Braked = engaged
	m.Brakes = append(m.Brakes, engaged)
}

// ReadAngle implements hal.Motor.
func (m *Motor) ReadAngle() float32 {
	m.Reads++
	if fn := m.AngleFunc; fn != nil {
		return fn()
	}
	return float32(m.Reads)
}

// Transport is a single-threaded in-memory byte link.
type Transport struct {
	WriteErr error
	FlushErr error

	rx      []byte
	tx      []byte
	flushes []int
}

// Feed queues bytes to be received by the device.
func (t *Transport) Feed(bs ...byte) {
	t.rx = append(t.rx, bs...)
}

// Available implements hal.Transport.
func (t *Transport) Available() bool {
	return len(t.rx) > 0
}

// Read implements hal.Transport.
func (t *Transport) Read() byte {
	if len(t.rx) == 0 {
		return 0
	}
	b := t.rx[0]
	t.rx = t.rx[1:]
	return b
}

// Write implements hal.Transport.
func (t *Transport) Write(p []byte) error {
	if t.WriteErr != nil {
		return t.WriteErr
	}
	t.tx = append(t.tx, p...)
	return nil
}

// Flush implements hal.Transport.
func (t *Transport) Flush() error {
	if t.FlushErr != nil {
		return t.FlushErr
	}
	t.flushes = append(t.flushes, len(t.tx))
	return nil
}

// Sent returns all bytes written so far.
func (t *Transport) Sent() []byte {
	return t.tx
}

// Flushes returns the count of bytes written at each Flush.
func (t *Transport) Flushes() []int {
	return t.flushes
}

// Pending returns the count of bytes not consumed by the device.
func (t *Transport) Pending() int {
	return len(t.rx)
}
