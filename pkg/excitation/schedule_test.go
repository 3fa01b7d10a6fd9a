package excitation

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleLength(t *testing.T) {
	testCases := []struct {
		name    string
		samples int
		period  time.Duration
		holdMin time.Duration
		expect  int
	}{
		{"default", 4096, 10 * time.Millisecond, 50 * time.Millisecond, 820},
		{"exact", 4095, 10 * time.Millisecond, 50 * time.Millisecond, 819},
		{"hold equals period", 100, 10 * time.Millisecond, 10 * time.Millisecond, 100},
		{"hold shorter than period", 100, 10 * time.Millisecond, 5 * time.Millisecond, 200},
		{"fractional ticks", 10, 10 * time.Millisecond, 25 * time.Millisecond, 4},
		{"single sample", 1, 10 * time.Millisecond, time.Second, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Samples, cfg.SamplePeriod, cfg.HoldMin = tc.samples, tc.period, tc.holdMin
			require.Equal(t, tc.expect, ScheduleLength(cfg))
		})
	}
}

func TestNewScheduleBounds(t *testing.T) {
	cfg := NewConfig()
	sched := NewSchedule(cfg, rand.New(rand.NewSource(1)))
	require.Equal(t, 820, sched.Len())
	require.Len(t, sched.Holds, sched.Len())
	for i := 0; i < sched.Len(); i++ {
		v, hold := sched.Entry(i)
		require.True(t, v >= -0.25 && v <= 0.25, "value[%d] = %g", i, v)
		require.True(t, hold >= cfg.HoldMin && hold <= cfg.HoldMax, "hold[%d] = %v", i, hold)
	}
}

func TestNewScheduleDegenerate(t *testing.T) {
	cfg := NewConfig()
	cfg.HoldMax = cfg.HoldMin
	cfg.InputMin, cfg.InputMax = 0.1, 0.1
	sched := NewSchedule(cfg, rand.New(rand.NewSource(2)))
	for i := 0; i < sched.Len(); i++ {
		require.Equal(t, float32(0.1), sched.Values[i])
		require.Equal(t, cfg.HoldMin, sched.Holds[i])
	}
}

func TestScheduleEntryWraps(t *testing.T) {
	sched := &Schedule{
		Values: []float32{0.1, 0.2, 0.3},
		Holds:  []time.Duration{1, 2, 3},
	}
	v, hold := sched.Entry(4)
	require.Equal(t, float32(0.2), v)
	require.Equal(t, time.Duration(2), hold)
}

func TestNewSource(t *testing.T) {
	src := NewSource()
	f := src.Float64()
	require.True(t, f >= 0 && f < 1)
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"no samples", func(c *Config) { c.Samples = 0 }, false},
		{"no period", func(c *Config) { c.SamplePeriod = 0 }, false},
		{"no hold", func(c *Config) { c.HoldMin = 0 }, false},
		{"hold reversed", func(c *Config) { c.HoldMax = c.HoldMin - 1 }, false},
		{"hold degenerate", func(c *Config) { c.HoldMax = c.HoldMin }, true},
		{"input too large", func(c *Config) { c.InputMax = 1.5 }, false},
		{"input reversed", func(c *Config) { c.InputMin, c.InputMax = 0.2, 0.1 }, false},
		{"input full range", func(c *Config) { c.InputMin, c.InputMax = -1, 1 }, true},
		{"input min NaN", func(c *Config) { c.InputMin = math.NaN() }, false},
		{"input max NaN", func(c *Config) { c.InputMax = math.NaN() }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.modify(cfg)
			if tc.valid {
				require.NoError(t, cfg.Validate())
			} else {
				require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
			}
		})
	}
}
