package modules

import (
	"sync"
	"time"
)

// probeGate rate-limits a module's background worker and keeps at most one
// in flight. A superseding run is harmless anyway (the module only trusts
// the most recently published result), but piling up subprocess or network
// calls is not.
type probeGate struct {
	mu       sync.Mutex
	inFlight bool
	last     time.Time
}

// tryStart returns true when a new worker may run, and reserves the slot.
func (g *probeGate) tryStart(now time.Time, interval time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight {
		return false
	}
	if !g.last.IsZero() && now.Sub(g.last) < interval {
		return false
	}
	g.inFlight = true
	return true
}

// finish releases the slot and stamps the completion time.
func (g *probeGate) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
	g.last = time.Now()
}
