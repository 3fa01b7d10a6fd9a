package session

import (
	"context"
	"fmt"
)

// State is the position of a Session in the handshake.
type State int

// States, in protocol order. StateFailed is absorbing.
const (
	StateIdle State = iota
	StateConnectionChecked
	StateStarted
	StateTestComplete
	StateDataRequested
	StateSent
	StateFailed
)

var stateNames = [...]string{
	StateIdle:              "Idle",
	StateConnectionChecked: "ConnectionChecked",
	StateStarted:           "Started",
	StateTestComplete:      "TestComplete",
	StateDataRequested:     "DataRequested",
	StateSent:              "Sent",
	StateFailed:            "Failed",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateSent || s == StateFailed
}

// Outcome is the operator-visible result of a Session.
type Outcome int

// Outcomes
const (
	Failure Outcome = iota
	Success
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o == Success {
		return "Success"
	}
	return "Failure"
}

// StateNotifier is called on every state transition.
type StateNotifier interface {
	StateChanged(context.Context, State)
}

// StateChangedFunc is func type of StateNotifier.
type StateChangedFunc func(context.Context, State)

// StateChanged implements StateNotifier.
func (f StateChangedFunc) StateChanged(ctx context.Context, state State) {
	f(ctx, state)
}

// StepError is the cause of a Session ending in StateFailed.
type StepError struct {
	State State
	Err   error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("session failed in %s: %v", e.State, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}
