package excitation

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// Config defines a sampling experiment.
type Config struct {
	// Samples is the number of samples N, agreed with the host out-of-band.
	Samples int
	// SamplePeriod is the fixed sampling period T_s.
	SamplePeriod time.Duration
	// InputMin and InputMax bound the excitation amplitude.
	InputMin float64
	InputMax float64
	// HoldMin and HoldMax bound how long an input is held.
	HoldMin time.Duration
	HoldMax time.Duration
}

// Defaults
const (
	DefaultSamples      = 4096
	DefaultSamplePeriod = 10 * time.Millisecond
	DefaultInputLimit   = 0.25
	DefaultHoldMin      = 50 * time.Millisecond
	DefaultHoldMax      = 500 * time.Millisecond
)

var defaultConfig = Config{
	Samples:      DefaultSamples,
	SamplePeriod: DefaultSamplePeriod,
	InputMin:     -DefaultInputLimit,
	InputMax:     DefaultInputLimit,
	HoldMin:      DefaultHoldMin,
	HoldMax:      DefaultHoldMax,
}

var (
	// ErrInvalidConfig indicates the config can't describe an experiment.
	ErrInvalidConfig = errors.New("invalid excitation config")
)

func init() {
	if val := os.Getenv("SYSID_SAMPLES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.Samples = n
		}
	}
	if val := os.Getenv("SYSID_SAMPLE_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			defaultConfig.SamplePeriod = d
		}
	}
}

// SetupFlags sets command line flags shared by device and host.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Samples, "samples", defaultConfig.Samples, "Number of samples per experiment.")
	flag.DurationVar(&defaultConfig.SamplePeriod, "sample-period", defaultConfig.SamplePeriod, "Sampling period.")
}

// SetupExcitationFlags sets command line flags only the device needs.
func SetupExcitationFlags() {
	flag.Float64Var(&defaultConfig.InputMin, "input-min", defaultConfig.InputMin, "Minimum excitation input in [-1, 1].")
	flag.Float64Var(&defaultConfig.InputMax, "input-max", defaultConfig.InputMax, "Maximum excitation input in [-1, 1].")
	flag.DurationVar(&defaultConfig.HoldMin, "hold-min", defaultConfig.HoldMin, "Minimum time an input is held.")
	flag.DurationVar(&defaultConfig.HoldMax, "hold-max", defaultConfig.HoldMax, "Maximum time an input is held.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	switch {
	case c.Samples <= 0:
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples)
	case c.SamplePeriod <= 0:
		return fmt.Errorf("%w: sample period must be positive, got %v", ErrInvalidConfig, c.SamplePeriod)
	case c.HoldMin <= 0:
		return fmt.Errorf("%w: minimum hold must be positive, got %v", ErrInvalidConfig, c.HoldMin)
	case c.HoldMax < c.HoldMin:
		return fmt.Errorf("%w: hold range [%v, %v] is empty", ErrInvalidConfig, c.HoldMin, c.HoldMax)
	case math.IsNaN(c.InputMin) || math.IsNaN(c.InputMax):
		return fmt.Errorf("%w: input range [%g, %g] is not a number", ErrInvalidConfig, c.InputMin, c.InputMax)
	case c.InputMin < -1 || c.InputMax > 1:
		return fmt.Errorf("%w: input range [%g, %g] exceeds [-1, 1]", ErrInvalidConfig, c.InputMin, c.InputMax)
	case c.InputMax < c.InputMin:
		return fmt.Errorf("%w: input range [%g, %g] is empty", ErrInvalidConfig, c.InputMin, c.InputMax)
	}
	return nil
}

// Duration is the nominal length of the acquisition.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.Samples) * c.SamplePeriod
}
