package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

const (
	watcherStopped = iota
	watcherRunning
)

// Watcher refreshes the client periodically until stopped.
type Watcher struct {
	client   *Client
	interval time.Duration
	state    int32

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatcher(client *Client, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = client.Config().PollInterval
	}
	return &Watcher{
		client:   client,
		interval: interval,
	}
}

func (w *Watcher) Start() error {
	if !atomic.CompareAndSwapInt32(&w.state, watcherStopped, watcherRunning) {
		return ErrWatcherRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go w.loop(ctx)
	log.Info("Started campaign watcher", "interval", w.interval)
	return nil
}

func (w *Watcher) Stop() error {
	if !atomic.CompareAndSwapInt32(&w.state, watcherRunning, watcherStopped) {
		return ErrWatcherStopped
	}
	w.cancel()
	w.wg.Wait()
	log.Info("Stopped campaign watcher")
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.client.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.client.Refresh(ctx)
		}
	}
}
