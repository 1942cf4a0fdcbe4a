package syncer

import (
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"golang.org/x/time/rate"
)

// opGuard rejects an operation while another call of it is pending and
// debounces repeated calls of the same operation.
type opGuard struct {
	inflight mapset.Set
	interval time.Duration

	mu       sync.Mutex
	limiters map[Op]*rate.Limiter
}

func newOpGuard(interval time.Duration) *opGuard {
	return &opGuard{
		inflight: mapset.NewSet(),
		interval: interval,
		limiters: make(map[Op]*rate.Limiter),
	}
}

func (g *opGuard) allow(op Op) bool {
	if g.interval <= 0 {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	limiter, ok := g.limiters[op]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(g.interval), 1)
		g.limiters[op] = limiter
	}
	return limiter.Allow()
}

// acquire marks op in flight, the returned func releases it.
func (g *opGuard) acquire(op Op) (func(), error) {
	if !g.inflight.Add(op) {
		return nil, ErrOperationInFlight
	}
	if !g.allow(op) {
		g.inflight.Remove(op)
		return nil, ErrDebounced
	}
	return func() { g.inflight.Remove(op) }, nil
}

func (g *opGuard) pending() []Op {
	ops := make([]Op, 0, g.inflight.Cardinality())
	for _, item := range g.inflight.ToSlice() {
		ops = append(ops, item.(Op))
	}
	return ops
}
