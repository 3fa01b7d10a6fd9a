// Package serial opens serial ports as device links.
package serial

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the device firmware.
const DefaultBaudRate = 115200

// Port is an opened serial port.
type Port struct {
	serial.Port
	Name string
}

// Open opens the named port at baud (DefaultBaudRate if 0).
// Stale bytes in both directions are discarded.
func Open(name string, baud int) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err = p.ResetInputBuffer(); err == nil {
		err = p.ResetOutputBuffer()
	}
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("reset %s: %w", name, err)
	}
	return &Port{Port: p, Name: name}, nil
}

// Ports lists the serial ports present on the system.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
