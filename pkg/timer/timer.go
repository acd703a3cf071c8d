package timer

import (
	"sync"
	"time"
)

// Continuous is the fire count of a timer that repeats until stopped.
const Continuous = -1

// Timer is the user-facing timer object. Implementations must be pointer
// types: timers are compared by identity.
type Timer interface {
	// Name identifies the timer in logs.
	Name() string

	// Timeout is the period between start and expiry.
	Timeout() time.Duration

	// CanStart returns true if the timer is stopped and has a fire count.
	CanStart() bool

	// IsActive returns true while the timer has expirations left.
	IsActive() bool

	// Started is called when the timer is armed.
	Started()

	// Fired is called on every expiry.
	Fired()

	// Stopped is called when the timer is cancelled.
	Stopped()
}

// Event is a Timer that fires a fixed number of times, or continuously.
// It is safe for concurrent use.
type Event struct {
	name    string
	timeout time.Duration
	count   int

	mu        sync.Mutex
	remaining int
	active    bool
}

// New creates a timer that fires count times. A count of 0 fires once;
// a negative count is Continuous.
func New(name string, timeout time.Duration, count int) *Event {
	switch {
	case count < 0:
		count = Continuous
	case count == 0:
		count = 1
	}
	return &Event{name: name, timeout: timeout, count: count}
}

// Name returns the timer name.
func (e *Event) Name() string { return e.name }

// Timeout returns the timer period.
func (e *Event) Timeout() time.Duration { return e.timeout }

// Count returns the configured fire count.
func (e *Event) Count() int { return e.count }

// Remaining returns the expirations left in the current run.
func (e *Event) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// CanStart returns true if the timer is not running and has a timeout and a
// fire count.
func (e *Event) CanStart() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.active && e.timeout > 0 && e.count != 0
}

// IsActive returns true while the timer runs.
func (e *Event) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Started resets the fire count and marks the timer running.
func (e *Event) Started() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.remaining = e.count
	e.active = true
}

// Fired consumes one expiration.
func (e *Event) Fired() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.count == Continuous {
		return
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.active = false
	}
}

// Stopped marks the timer not running.
func (e *Event) Stopped() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.remaining = 0
}

var _ Timer = (*Event)(nil)
