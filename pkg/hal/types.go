// Package hal defines the hardware collaborators used by the device side.
package hal

import "time"

// Motor is the actuator/sensor driver of a DC motor with an encoder.
type Motor interface {
	// Begin initializes the hardware.
	Begin() error
	// SetSpeed commands a signed normalized speed in [-1, 1].
	SetSpeed(v float32)
	// Brake engages or releases the hard stop.
	Brake(engaged bool)
	// ReadAngle returns the unwrapped accumulated angle in radians.
	// It never blocks.
	ReadAngle() float32
}

// Transport is the byte-oriented link to the host.
type Transport interface {
	// Available reports whether a byte can be read without blocking.
	Available() bool
	// Read returns the next received byte, only valid when Available.
	Read() byte
	// Write queues bytes for sending.
	Write(p []byte) error
	// Flush blocks until all queued bytes are physically sent.
	Flush() error
}

// Clock is the device time base and the only suspension primitive.
type Clock interface {
	// Now returns monotonic time elapsed since boot.
	Now() time.Duration
	// Yield cedes control to the run-time so background services
	// (e.g. a watchdog) can run.
	Yield()
}

// Indicator is the operator-visible status output (LED).
type Indicator interface {
	Set(on bool)
}

// IndicatorFunc is the func form of Indicator.
type IndicatorFunc func(bool)

// Set implements Indicator.
func (f IndicatorFunc) Set(on bool) {
	f(on)
}
