// Package service runs a set of lifecycles until the stack is stopped.
package service

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
)

const (
	stateStopped = iota
	stateRunning
	stateStopping
)

type ServiceStack struct {
	lifecycles []Lifecycle // All registered services that have a lifecycle
	running    []Lifecycle // Services started by the current run, in start order
	state      int32       // Tracks the current state of the stack

	lock     sync.Mutex
	quitCh   chan struct{}
	quitLock sync.Mutex
}

// Run starts every registered lifecycle in registration order. If one fails
// the ones already started are stopped again.
func (s *ServiceStack) Run() error {
	if !atomic.CompareAndSwapInt32(&s.state, stateStopped, stateRunning) {
		return ErrServiceRunning
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	s.quitCh = make(chan struct{})
	s.running = s.running[:0]
	for _, lifecycle := range s.lifecycles {
		if err := lifecycle.Start(); err != nil {
			log.Error("Could not start service", "service", fmt.Sprintf("%T", lifecycle), "error", err)
			s.stopServices(s.running)
			s.running = nil
			close(s.quitCh)
			atomic.StoreInt32(&s.state, stateStopped)
			return err
		}
		s.running = append(s.running, lifecycle)
	}
	return nil
}

// stopServices stops the given services in reverse order.
func (s *ServiceStack) stopServices(running []Lifecycle) error {
	failure := &StopError{Services: make(map[reflect.Type]error)}
	for i := len(running) - 1; i >= 0; i-- {
		if err := running[i].Stop(); err != nil {
			failure.Services[reflect.TypeOf(running[i])] = err
		}
	}
	if len(failure.Services) > 0 {
		return failure
	}
	return nil
}

func (s *ServiceStack) Stop() error {
	if !atomic.CompareAndSwapInt32(&s.state, stateRunning, stateStopping) {
		return ErrServiceStopped
	}
	log.Info("Stopping services...")
	s.lock.Lock()
	err := s.stopServices(s.running)
	s.running = nil
	s.lock.Unlock()

	s.quitLock.Lock()
	select {
	case <-s.quitCh:
	default:
		close(s.quitCh)
	}
	s.quitLock.Unlock()
	atomic.StoreInt32(&s.state, stateStopped)
	return err
}

// Wait blocks until the stack is stopped.
func (s *ServiceStack) Wait() {
	s.lock.Lock()
	quitCh := s.quitCh
	s.lock.Unlock()
	if quitCh != nil {
		<-quitCh
	}
}

func containsLifecycle(lfs []Lifecycle, l Lifecycle) bool {
	for _, obj := range lfs {
		if obj == l {
			return true
		}
	}
	return false
}

func (s *ServiceStack) RegisterLifecycle(lifecycle Lifecycle) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if atomic.LoadInt32(&s.state) != stateStopped {
		panic("can't register lifecycle when service is running")
	}
	if containsLifecycle(s.lifecycles, lifecycle) {
		panic(fmt.Sprintf("attempt to register lifecycle %T more than once", lifecycle))
	}
	s.lifecycles = append(s.lifecycles, lifecycle)
}

func NewServiceStack() *ServiceStack {
	return &ServiceStack{}
}
