package syncer

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected      = errors.New("client not connected to a signer")
	ErrOperationInFlight = errors.New("operation already in progress")
	ErrDebounced         = errors.New("operation requested too soon, try again")
	ErrInvalidCount      = errors.New("campaign count out of range")
	ErrWatcherRunning    = errors.New("watcher already running")
	ErrWatcherStopped    = errors.New("watcher not running")
)

// ValidationError reports malformed user input. No remote call has been made.
type ValidationError struct {
	Field  string
	Input  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// RemoteCallError reports a provider, network or contract failure.
type RemoteCallError struct {
	Op  Op
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
