package session

import "fmt"

// Code is a single-byte protocol command.
type Code byte

// Codes, in protocol order.
const (
	HostCheckConnection   Code = 0x01
	DeviceCheckConnection Code = 0x02
	HostStartTest         Code = 0x03
	DeviceAckStart        Code = 0x04
	DeviceTestSuccess     Code = 0x05
	HostRequestData       Code = 0x06
	DeviceDataRequestAck  Code = 0x07
)

// Sender identifies which side of the link may send a Code.
type Sender int

// Senders
const (
	SenderNone Sender = iota
	SenderHost
	SenderDevice
)

var codeNames = map[Code]string{
	HostCheckConnection:   "HostCheckConnection",
	DeviceCheckConnection: "DeviceCheckConnection",
	HostStartTest:         "HostStartTest",
	DeviceAckStart:        "DeviceAckStart",
	DeviceTestSuccess:     "DeviceTestSuccess",
	HostRequestData:       "HostRequestData",
	DeviceDataRequestAck:  "DeviceDataRequestAck",
}

// Valid reports whether c is a protocol code.
func (c Code) Valid() bool {
	_, ok := codeNames[c]
	return ok
}

// Sender returns the only side allowed to send c.
func (c Code) Sender() Sender {
	switch c {
	case HostCheckConnection, HostStartTest, HostRequestData:
		return SenderHost
	case DeviceCheckConnection, DeviceAckStart, DeviceTestSuccess, DeviceDataRequestAck:
		return SenderDevice
	}
	return SenderNone
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(0x%02x)", byte(c))
}

// String implements fmt.Stringer.
func (s Sender) String() string {
	switch s {
	case SenderHost:
		return "host"
	case SenderDevice:
		return "device"
	}
	return "none"
}
