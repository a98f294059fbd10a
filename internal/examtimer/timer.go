// Package examtimer implements the single countdown that drives an active
// exam. It is pure local state; the caller supplies the one-second ticks.
package examtimer

import (
	"fmt"
	"time"
)

// TickInterval is the cadence at which Tick is expected to be called.
const TickInterval = time.Second

// UrgentThreshold is the remaining time at or below which the countdown
// is displayed as urgent.
const UrgentThreshold = 5 * 60

// Timer counts down whole seconds. It never goes below zero and reports
// expiry exactly once.
type Timer struct {
	total     int
	remaining int
	running   bool
	expired   bool
}

// New creates a stopped timer with no time on it.
func New() *Timer {
	return &Timer{}
}

// Reset loads seconds onto the timer and starts it.
func (t *Timer) Reset(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	t.total = seconds
	t.remaining = seconds
	t.expired = false
	t.running = seconds > 0
	if seconds == 0 {
		t.expired = true
	}
}

// Tick advances the countdown by one second. It returns true exactly once,
// on the tick that reaches zero; the timer is stopped afterwards. Ticks on
// a stopped timer have no effect.
func (t *Timer) Tick() bool {
	if !t.running {
		return false
	}
	t.remaining--
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	t.running = false
	t.expired = true
	return true
}

// Stop halts the countdown. Safe to call repeatedly.
func (t *Timer) Stop() {
	t.running = false
}

// Resume restarts a stopped timer that has time left. Returns false if
// the timer has expired.
func (t *Timer) Resume() bool {
	if t.expired || t.remaining == 0 {
		return false
	}
	t.running = true
	return true
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int {
	return t.remaining
}

// Total returns the duration the timer was last reset to.
func (t *Timer) Total() int {
	return t.total
}

// Running reports whether ticks currently decrement the timer.
func (t *Timer) Running() bool {
	return t.running
}

// Expired reports whether the timer has reached zero.
func (t *Timer) Expired() bool {
	return t.expired
}

// Urgent reports whether the remaining time should be highlighted.
func (t *Timer) Urgent() bool {
	return t.remaining <= UrgentThreshold
}

// Fraction returns the share of time remaining in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.remaining) / float64(t.total)
}

// Format renders seconds as MM:SS.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
