// Package session implements the device side of the acquisition handshake.
package session

import (
	"context"

	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/frame"
	"github.com/robotalks/sysid.go/pkg/hal"
)

// Session is a single run of the handshake, from power-on to the data
// transfer. It exclusively owns the Record it acquires.
type Session struct {
	Transport hal.Transport
	Motor     hal.Motor
	Clock     hal.Clock
	Config    *excitation.Config
	Source    excitation.Source
	Notifier  StateNotifier

	state  State
	record *excitation.Record
	err    error
}

// New creates a Session in StateIdle.
func New(t hal.Transport, m hal.Motor, c hal.Clock, cfg *excitation.Config) *Session {
	return &Session{
		Transport: t,
		Motor:     m,
		Clock:     c,
		Config:    cfg,
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Err returns the cause of failure, if any.
func (s *Session) Err() error {
	return s.err
}

// Succeeded reports whether the data was sent.
func (s *Session) Succeeded() bool {
	return s.state == StateSent
}

// Outcome is Success once the data was sent, Failure otherwise,
// including while the session is still running.
func (s *Session) Outcome() Outcome {
	if s.Succeeded() {
		return Success
	}
	return Failure
}

// Record returns the acquired record, nil before the test ran.
func (s *Session) Record() *excitation.Record {
	return s.record
}

// Run drives the handshake to StateSent or StateFailed.
// Waiting for a host command never times out by itself: ctx is the only
// bound, context.Background() waits forever.
func (s *Session) Run(ctx context.Context) error {
	if s.state != StateIdle {
		return s.err
	}
	if err := s.Config.Validate(); err != nil {
		return s.fail(ctx, err)
	}
	if err := s.Motor.Begin(); err != nil {
		return s.fail(ctx, err)
	}
	steps := []struct {
		action func(context.Context) error
		next   State
	}{
		{s.connectionCheck, StateConnectionChecked},
		{s.startTest, StateStarted},
		{s.runTest, StateTestComplete},
		{s.dataRequest, StateDataRequested},
		{s.sendData, StateSent},
	}
	for _, step := range steps {
		if err := step.action(ctx); err != nil {
			return s.fail(ctx, err)
		}
		s.setState(ctx, step.next)
	}
	return nil
}

func (s *Session) connectionCheck(ctx context.Context) error {
	if err := s.await(ctx, HostCheckConnection); err != nil {
		return err
	}
	return s.reply(DeviceCheckConnection)
}

func (s *Session) startTest(ctx context.Context) error {
	if err := s.await(ctx, HostStartTest); err != nil {
		return err
	}
	return s.reply(DeviceAckStart)
}

func (s *Session) runTest(ctx context.Context) error {
	src := s.Source
	if src == nil {
		src = excitation.NewSource()
	}
	sched := excitation.NewSchedule(s.Config, src)
	s.record = excitation.NewRecord(s.Config.Samples)
	excitation.Run(s.Config, sched, s.Motor, s.Clock, s.record)
	return s.reply(DeviceTestSuccess)
}

func (s *Session) dataRequest(ctx context.Context) error {
	if err := s.await(ctx, HostRequestData); err != nil {
		return err
	}
	return s.reply(DeviceDataRequestAck)
}

func (s *Session) sendData(ctx context.Context) error {
	return frame.Write(s.Transport, s.record)
}

// await busy-polls the transport until code is received. Other bytes
// are discarded.
func (s *Session) await(ctx context.Context, code Code) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Transport.Available() && Code(s.Transport.Read()) == code {
			return nil
		}
		s.Clock.Yield()
	}
}

func (s *Session) reply(code Code) error {
	if err := s.Transport.Write([]byte{byte(code)}); err != nil {
		return err
	}
	return s.Transport.Flush()
}

func (s *Session) setState(ctx context.Context, state State) {
	s.state = state
	if n := s.Notifier; n != nil {
		n.StateChanged(ctx, state)
	}
}

func (s *Session) fail(ctx context.Context, err error) error {
	s.err = &StepError{State: s.state, Err: err}
	s.setState(ctx, StateFailed)
	return s.err
}
