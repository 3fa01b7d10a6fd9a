// Package motor simulates a DC motor with a quadrature encoder.
package motor

import (
	"math"
	"sync"
	"time"

	"github.com/robotalks/sysid.go/pkg/hal"
)

// Motor is a first order velocity model:
//
//	tau * dw/dt = Gain * u - w
//
// The angle is integrated exactly between updates, so the result does not
// depend on how often ReadAngle is called.
type Motor struct {
	Config
	Clock hal.Clock

	input      float64
	braked     bool
	speed      float64
	angle      float64
	lastUpdate time.Duration
	lock       sync.Mutex
}

// Begin implements hal.Motor.
func (m *Motor) Begin() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.lastUpdate = m.Clock.Now()
	m.input, m.speed, m.angle, m.braked = 0, 0, 0, false
	return nil
}

// SetSpeed implements hal.Motor.
func (m *Motor) SetSpeed(v float32) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.update()
	m.input = math.Max(-1, math.Min(1, float64(v)))
}

// Brake implements hal.Motor.
func (m *Motor) Brake(engaged bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.update()
	m.braked = engaged
	if engaged {
		m.speed = 0
	}
}

// ReadAngle implements hal.Motor.
func (m *Motor) ReadAngle() float32 {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.update()
	return float32(m.quantize(m.angle))
}

// Speed returns the current angular speed (rad/s).
func (m *Motor) Speed() float64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.update()
	return m.speed
}

func (m *Motor) update() {
	now := m.Clock.Now()
	dt := (now - m.lastUpdate).Seconds()
	m.lastUpdate = now
	if dt <= 0 || m.braked {
		return
	}
	target := m.Gain * m.input
	tau := m.TimeConstant.Seconds()
	if tau <= 0 {
		m.speed = target
		m.angle += target * dt
		return
	}
	decay := math.Exp(-dt / tau)
	m.angle += target*dt + (m.speed-target)*tau*(1-decay)
	m.speed = target + (m.speed-target)*decay
}

func (m *Motor) quantize(angle float64) float64 {
	if m.PPR <= 0 {
		return angle
	}
	res := 2 * math.Pi / float64(m.PPR)
	return math.Floor(angle/res) * res
}
