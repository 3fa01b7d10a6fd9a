package host

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/sysid.go/pkg/env"
	"github.com/robotalks/sysid.go/pkg/excitation"
)

// Config defines the host side of an experiment.
type Config struct {
	// Link is the device address, see link.Open.
	Link string
	// DeviceID labels the results, defaults to the machine ID.
	DeviceID string
	// Timeout bounds each acknowledgment.
	Timeout time.Duration
	// CompleteTimeout bounds the test run, 0 derives it from the experiment.
	CompleteTimeout time.Duration
	// Settle is the wait after opening the link for the device to reset.
	Settle time.Duration
}

// Defaults
const (
	DefaultLink     = "/dev/ttyUSB0"
	DefaultTimeout  = 2 * time.Second
	DefaultSettle   = 2 * time.Second
	CompleteMargin  = 20 * time.Second
	MinCompleteTime = time.Minute
)

var defaultConfig = Config{
	Link:    DefaultLink,
	Timeout: DefaultTimeout,
	Settle:  DefaultSettle,
}

func init() {
	if val := os.Getenv("SYSID_LINK"); val != "" {
		defaultConfig.Link = val
	}
	defaultConfig.DeviceID = os.Getenv("SYSID_DEVICE_ID")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Link, "link", defaultConfig.Link, "Device link: serial port, serial:// or ws:// URL.")
	flag.StringVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "Device ID labeling results, default is machine ID.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Timeout waiting for device acknowledgments.")
	flag.DurationVar(&defaultConfig.CompleteTimeout, "complete-timeout", defaultConfig.CompleteTimeout, "Timeout waiting for test completion, 0 derives from samples.")
	flag.DurationVar(&defaultConfig.Settle, "settle", defaultConfig.Settle, "Wait after opening the link.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	if conf.DeviceID == "" {
		conf.DeviceID = env.MachineID()
	}
	return &conf
}

// CompleteTimeoutFor returns the bound waiting for exp to complete.
func (c *Config) CompleteTimeoutFor(exp *excitation.Config) time.Duration {
	if c.CompleteTimeout > 0 {
		return c.CompleteTimeout
	}
	d := exp.Duration() + CompleteMargin
	if d < MinCompleteTime {
		d = MinCompleteTime
	}
	return d
}
