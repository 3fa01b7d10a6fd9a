package host

import (
	"fmt"

	"github.com/robotalks/sysid.go/pkg/link"
	"github.com/robotalks/sysid.go/pkg/session"
)

// ErrTimeout indicates the device didn't respond in time.
var ErrTimeout = link.ErrTimeout

// UnexpectedCodeError is returned when the device replies with a
// different code.
type UnexpectedCodeError struct {
	Expected session.Code
	Actual   session.Code
}

// Error implements error.
func (e *UnexpectedCodeError) Error() string {
	return fmt.Sprintf("expect %v, received %v", e.Expected, e.Actual)
}
