// Package msgs defines the messages published about experiments.
package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/host"
)

// Record is an experiment result.
type Record struct {
	DeviceID       string    `protobuf:"bytes,1,opt,name=device_id,proto3" json:"device_id,omitempty"`
	SamplePeriodUs int64     `protobuf:"varint,2,opt,name=sample_period_us,proto3" json:"sample_period_us,omitempty"`
	StartedMs      int64     `protobuf:"varint,3,opt,name=started_ms,proto3" json:"started_ms,omitempty"`
	Input          []float32 `protobuf:"fixed32,4,rep,packed,name=input,proto3" json:"input,omitempty"`
	Angle          []float32 `protobuf:"fixed32,5,rep,packed,name=angle,proto3" json:"angle,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Record) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Record) Reset() { *m = Record{} }

// String implements proto.Message.
func (m *Record) String() string { return proto.CompactTextString(m) }

// FromExperiment creates a Record from exp.
func FromExperiment(exp *host.Experiment) *Record {
	m := &Record{
		DeviceID:       exp.DeviceID,
		SamplePeriodUs: exp.SamplePeriod.Microseconds(),
		Input:          exp.Record.Input,
		Angle:          exp.Record.Angle,
	}
	if !exp.Started.IsZero() {
		m.StartedMs = exp.Started.UnixNano() / int64(time.Millisecond)
	}
	return m
}

// Experiment converts back to host.Experiment.
func (m *Record) Experiment() (*host.Experiment, error) {
	if len(m.Input) != len(m.Angle) {
		return nil, excitation.ErrRecordMismatch
	}
	exp := &host.Experiment{
		DeviceID:     m.DeviceID,
		SamplePeriod: time.Duration(m.SamplePeriodUs) * time.Microsecond,
		Record:       &excitation.Record{Input: m.Input, Angle: m.Angle},
	}
	if m.StartedMs != 0 {
		exp.Started = time.Unix(0, m.StartedMs*int64(time.Millisecond))
	}
	return exp, nil
}

// Encode serializes m.
func Encode(m *Record) ([]byte, error) {
	return proto.Marshal(m)
}

// Decode parses a serialized Record.
func Decode(data []byte) (*Record, error) {
	m := &Record{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
