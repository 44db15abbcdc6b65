package oauthflow

import (
	"sync"
	"time"
)

// exchangeGuard prevents duplicate exchange calls for the same authorization
// code from this process: browser back/forward, double navigation, and
// refresh all re-run the callback with the same code.
//
// The mark is taken synchronously before the network call begins and is not
// dropped on completion; it only lapses after a cooldown window following
// release. Dropping it immediately would let a near-simultaneous duplicate
// legitimately race the first request to the backend and fail with a
// confusing error, since the code is single-use. Cross-tab and
// cross-instance races cannot be caught here; the backend rejecting the
// second use of a code covers those.
type exchangeGuard struct {
	mu       sync.Mutex
	cooldown time.Duration
	marks    map[string]time.Time // code -> lapse time; zero while in flight
}

func newExchangeGuard(cooldown time.Duration) *exchangeGuard {
	return &exchangeGuard{
		cooldown: cooldown,
		marks:    make(map[string]time.Time),
	}
}

// tryAcquire marks the code as in-flight. It returns false while a previous
// attempt is in flight or inside its cooldown window.
func (g *exchangeGuard) tryAcquire(code string) bool {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	// Drop lapsed marks opportunistically so the map stays small.
	for c, until := range g.marks {
		if !until.IsZero() && now.After(until) {
			delete(g.marks, c)
		}
	}

	if until, ok := g.marks[code]; ok && (until.IsZero() || now.Before(until)) {
		return false
	}
	g.marks[code] = time.Time{}
	return true
}

// release starts the cooldown window for the code. Called after the exchange
// completes, success or failure.
func (g *exchangeGuard) release(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.marks[code]; ok {
		g.marks[code] = time.Now().Add(g.cooldown)
	}
}
