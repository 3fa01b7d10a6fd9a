package motor

import (
	"flag"
	"time"

	"github.com/robotalks/sysid.go/pkg/hal"
)

// Config defines the simulated motor.
type Config struct {
	// Gain is the steady state speed (rad/s) at full input.
	Gain float64
	// TimeConstant is the first order response time.
	TimeConstant time.Duration
	// PPR is the encoder pulses per revolution, 0 for an ideal encoder.
	PPR int
}

// Defaults
const (
	DefaultGain         = 60
	DefaultTimeConstant = 150 * time.Millisecond
	DefaultPPR          = 1320
)

var defaultConfig = Config{
	Gain:         DefaultGain,
	TimeConstant: DefaultTimeConstant,
	PPR:          DefaultPPR,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Gain, "motor-gain", defaultConfig.Gain, "Steady state speed (rad/s) of simulated motor at full input.")
	flag.DurationVar(&defaultConfig.TimeConstant, "motor-tau", defaultConfig.TimeConstant, "Time constant of simulated motor.")
	flag.IntVar(&defaultConfig.PPR, "motor-ppr", defaultConfig.PPR, "Encoder pulses per revolution of simulated motor, 0 for ideal.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewMotor creates a Motor driven by clock.
func (c *Config) NewMotor(clock hal.Clock) *Motor {
	return &Motor{Config: *c, Clock: clock}
}
