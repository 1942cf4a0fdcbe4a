package service

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrServiceRunning = errors.New("service already running")
	ErrServiceStopped = errors.New("service already stopped")
)

// StopError is returned if the stack fails to stop any of its registered
// services.
type StopError struct {
	Services map[reflect.Type]error
}

// Error generates a textual representation of the stop error.
func (e *StopError) Error() string {
	return fmt.Sprintf("services: %v", e.Services)
}
