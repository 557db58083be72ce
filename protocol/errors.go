package protocol

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAckTimeout is returned when the device does not acknowledge a record
// within the port's read timeout.
var ErrAckTimeout = errors.New("timed out waiting for acknowledgment")

// Transmission phases reported in a TransmitError.
const (
	PhaseConfig   = "config"
	PhaseHeader   = "header"
	PhaseCommand  = "command"
	PhaseSelfTest = "self-test"
)

// TransmitError reports where a transmission stopped. Index is the command
// being sent in the command phase and -1 otherwise.
type TransmitError struct {
	Phase string
	Index int
	Err   error
}

func (e *TransmitError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("transmission failed in %s phase at command %d: %v", e.Phase, e.Index, e.Err)
	}
	return fmt.Sprintf("transmission failed in %s phase: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *TransmitError) Unwrap() error {
	return e.Err
}
