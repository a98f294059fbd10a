// Package proctor turns behavioural integrity signals into strikes and
// decides when an exam must be terminated.
package proctor

import (
	"fmt"
	"time"
)

// MaxStrikes is the number of violations that terminates an exam.
const MaxStrikes = 3

// WarningDuration is how long a strike warning stays on screen.
const WarningDuration = 3500 * time.Millisecond

// Violation is one recorded strike. Records are append-only.
type Violation struct {
	Signal Signal
	Reason string
	Strike int // 1-based ordinal
	At     time.Time
}

// Outcome describes the effect of one batch of signals.
type Outcome struct {
	// Recorded holds the strikes appended by this batch, in order.
	Recorded []Violation

	// Count is the strike count after the batch.
	Count int

	// Warning is the transient notification for the last recorded strike.
	// Empty when nothing was recorded.
	Warning string

	// Terminated is true only for the batch that reached MaxStrikes.
	Terminated bool
}

// Monitor records strikes while active. Once MaxStrikes is reached it
// signals termination exactly once and ignores everything afterwards.
type Monitor struct {
	now        func() time.Time
	active     bool
	terminated bool
	records    []Violation
}

// NewMonitor creates an inactive monitor. If now is nil, time.Now is used.
func NewMonitor(now func() time.Time) *Monitor {
	if now == nil {
		now = time.Now
	}
	return &Monitor{now: now}
}

// Activate starts observing. Returns false if the monitor already
// terminated; a terminated monitor stays inert.
func (m *Monitor) Activate() bool {
	if m.terminated {
		return false
	}
	m.active = true
	return true
}

// Deactivate stops observing. Safe to call repeatedly.
func (m *Monitor) Deactivate() {
	m.active = false
}

// Active reports whether signals are currently being recorded.
func (m *Monitor) Active() bool {
	return m.active
}

// Terminated reports whether the strike cap has been reached.
func (m *Monitor) Terminated() bool {
	return m.terminated
}

// Count returns the number of recorded strikes.
func (m *Monitor) Count() int {
	return len(m.records)
}

// Violations returns a copy of the strike log.
func (m *Monitor) Violations() []Violation {
	out := make([]Violation, len(m.records))
	copy(out, m.records)
	return out
}

// Record records a single signal. See RecordAll.
func (m *Monitor) Record(sig Signal) Outcome {
	return m.RecordAll(sig)
}

// RecordAll records signals that arrived in the same tick. Every signal
// counts toward the cap; signals after the cap are dropped and
// termination is reported once for the whole batch.
func (m *Monitor) RecordAll(sigs ...Signal) Outcome {
	out := Outcome{Count: len(m.records)}
	if !m.active || m.terminated {
		return out
	}

	at := m.now()
	for _, sig := range sigs {
		v := Violation{
			Signal: sig,
			Reason: sig.Reason(),
			Strike: len(m.records) + 1,
			At:     at,
		}
		m.records = append(m.records, v)
		out.Recorded = append(out.Recorded, v)

		if len(m.records) >= MaxStrikes {
			m.terminated = true
			m.active = false
			out.Terminated = true
			break
		}
	}

	out.Count = len(m.records)
	if n := len(out.Recorded); n > 0 {
		out.Warning = WarningText(out.Recorded[n-1])
	}
	return out
}

// WarningText formats the transient notification for a strike.
func WarningText(v Violation) string {
	return fmt.Sprintf("⚠ %s (Strike %d/%d)", v.Reason, v.Strike, MaxStrikes)
}
