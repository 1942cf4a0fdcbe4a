package service

// Lifecycle encompasses the behavior of services that can be started and
// stopped by the stack. It is the responsibility of the service-specific
// package to register the service using the `RegisterLifecycle` method.
type Lifecycle interface {
	// Start spawns any goroutines required by the service.
	Start() error

	// Stop terminates all goroutines belonging to the service, blocking until they
	// are all terminated.
	Stop() error
}
