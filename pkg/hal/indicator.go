package hal

import "github.com/golang/glog"

// LogIndicator reports indicator edges to the log, for builds
// without a physical LED.
type LogIndicator struct {
	Name string

	on bool
}

// Set implements Indicator.
func (i *LogIndicator) Set(on bool) {
	if on == i.on {
		return
	}
	i.on = on
	if glog.V(2) {
		state := "off"
		if on {
			state = "on"
		}
		glog.Infof("indicator %s %s", i.Name, state)
	}
}

// On reports the current state.
func (i *LogIndicator) On() bool {
	return i.on
}
