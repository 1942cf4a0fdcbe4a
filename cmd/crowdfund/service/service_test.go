package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

type testService struct {
	name     string
	rec      *recorder
	startErr error
	stopErr  error
}

func (s *testService) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	s.rec.events = append(s.rec.events, "start "+s.name)
	return nil
}

func (s *testService) Stop() error {
	s.rec.events = append(s.rec.events, "stop "+s.name)
	return s.stopErr
}

func TestServiceStackLifecycle(t *testing.T) {
	rec := &recorder{}
	stack := NewServiceStack()
	stack.RegisterLifecycle(&testService{name: "watcher", rec: rec})
	stack.RegisterLifecycle(&testService{name: "bot", rec: rec})

	require.NoError(t, stack.Run())
	assert.ErrorIs(t, stack.Run(), ErrServiceRunning)

	done := make(chan struct{})
	go func() {
		stack.Wait()
		close(done)
	}()
	require.NoError(t, stack.Stop())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Stop")
	}
	assert.ErrorIs(t, stack.Stop(), ErrServiceStopped)
	assert.Equal(t, []string{"start watcher", "start bot", "stop bot", "stop watcher"}, rec.events)
}

func TestServiceStackStartFailure(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("session closed")
	stack := NewServiceStack()
	stack.RegisterLifecycle(&testService{name: "watcher", rec: rec})
	stack.RegisterLifecycle(&testService{name: "bot", rec: rec, startErr: boom})

	assert.ErrorIs(t, stack.Run(), boom)
	assert.Equal(t, []string{"start watcher", "stop watcher"}, rec.events)
	stack.Wait()
	assert.ErrorIs(t, stack.Stop(), ErrServiceStopped)
}

func TestServiceStackStopError(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("close failed")
	stack := NewServiceStack()
	stack.RegisterLifecycle(&testService{name: "bot", rec: rec, stopErr: boom})
	require.NoError(t, stack.Run())

	err := stack.Stop()
	var stopErr *StopError
	require.ErrorAs(t, err, &stopErr)
	assert.Len(t, stopErr.Services, 1)
}

func TestRegisterLifecycleTwice(t *testing.T) {
	stack := NewServiceStack()
	svc := &testService{name: "bot", rec: &recorder{}}
	stack.RegisterLifecycle(svc)
	assert.Panics(t, func() { stack.RegisterLifecycle(svc) })
}
