// Package env provides facts about the machine running the binaries.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the machine ID so the raw ID is never published.
const AppID = "sysid"

// MachineID retrieves the unique ID identifying the machine.
// It falls back to the hostname when the ID is not accessible.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
