// Package schedule wakes the kiosk when the calendar day changes. Pickup
// options are anchored to "today" at order start, so a kiosk left open
// overnight would offer yesterday's dates to the first customer of the
// morning unless something rebuilds its idle wizards.
package schedule

import (
	"sync"
	"time"
)

// checkInterval is how often the rollover looks at the clock. Midnight
// accuracy within a minute is plenty for pickup dates.
const checkInterval = time.Minute

// Rollover fires a handler shortly after local midnight, every day, until
// stopped.
type Rollover struct {
	mu      sync.Mutex
	handler func()
	next    time.Time
	ticker  *time.Ticker
	done    chan struct{}
	running bool

	// nowFunc allows tests to inject a clock.
	nowFunc func() time.Time
}

// NewRollover returns a rollover that calls handler on each day change.
func NewRollover(handler func()) *Rollover {
	return &Rollover{
		handler: handler,
		nowFunc: time.Now,
	}
}

// SetTimeFunc sets a custom time function (for testing).
func (r *Rollover) SetTimeFunc(fn func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nowFunc = fn
	r.next = time.Time{}
}

// Start begins the clock watch. Calling Start on a running rollover is a
// no-op.
func (r *Rollover) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true
	r.ticker = time.NewTicker(checkInterval)
	r.done = make(chan struct{})

	go r.run(r.ticker, r.done)
}

// Stop halts the clock watch. Safe to call on a stopped rollover.
func (r *Rollover) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.running = false
	r.ticker.Stop()
	close(r.done)
}

// Running reports whether the rollover is watching the clock.
func (r *Rollover) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Rollover) run(ticker *time.Ticker, done chan struct{}) {
	// Anchor to the current day immediately so the first real tick only
	// fires after an actual day change.
	r.Tick()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick checks the clock once and fires the handler when the day has rolled
// over since the previous check. Exposed so tests can drive the rollover
// without waiting out a ticker.
func (r *Rollover) Tick() {
	r.mu.Lock()
	now := r.nowFunc()
	due := r.dueLocked(now)
	handler := r.handler
	r.mu.Unlock()

	if due && handler != nil {
		handler()
	}
}

// dueLocked advances the midnight target and reports whether it was passed.
// The first check after construction only anchors the target.
func (r *Rollover) dueLocked(now time.Time) bool {
	if r.next.IsZero() {
		r.next = nextMidnight(now)
		return false
	}
	if now.Before(r.next) {
		return false
	}
	r.next = nextMidnight(now)
	return true
}

// nextMidnight returns the first instant of the day after now, in now's
// location.
func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
