package session

import (
	"errors"
	"fmt"
)

// ErrSessionActive means a session is already running.
var ErrSessionActive = errors.New("a session is already active")

// ErrNoSession means no session is running.
var ErrNoSession = errors.New("no active session")

// ErrSecretMismatch means the supplied secret does not hash to the
// stored value. The session stays active.
var ErrSecretMismatch = errors.New("secret does not match")

var errAlreadyRunning = errors.New("process already running")

var errInvalidDuration = errors.New("session duration must be positive")

// SpawnError reports a failure to start the enforcement process.
type SpawnError struct {
	Command string
	Cause   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Command, e.Cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Cause
}
