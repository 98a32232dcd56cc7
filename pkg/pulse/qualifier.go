// Package pulse converts raw level-change events on a digital input
// into qualified pulse counts.
package pulse

import (
	"errors"
	"time"
)

// Default timing constants for the lid switch input.
const (
	// DefaultDebounceWindow is the minimum time between two accepted
	// transitions; anything faster is bounce noise.
	DefaultDebounceWindow = 15 * time.Millisecond
	// DefaultMinPulseWidth is the minimum low-phase duration counted
	// as one pulse.
	DefaultMinPulseWidth = 50 * time.Millisecond
)

// ErrPulseWidth rejects a configuration where a legitimately
// debounced low phase could be misqualified as noise.
var ErrPulseWidth = errors.New("min pulse width below twice the debounce window")

// Sink consumes qualified pulses.
type Sink interface {
	Increment()
}

// SinkFunc is the func form of Sink.
type SinkFunc func()

// Increment implements Sink.
func (f SinkFunc) Increment() { f() }

// Qualifier is the debounce state machine. Transition is O(1) and
// non-blocking so it is safe in an interrupt-style producer; all
// state is private to that single producer.
//
// Only a completed low phase of sufficient width counts: the closing
// rising edge confirms the phase's true duration after debounce has
// filtered spurious transitions. A falling edge never increments by
// itself.
type Qualifier struct {
	debounce time.Duration
	minPulse time.Duration
	sink     Sink

	level    bool // logical line level; true is the high rest state
	seeded   bool
	lastEdge time.Time
}

// NewQualifier creates a Qualifier. Non-positive durations select the
// defaults. minPulse must be at least twice debounce.
func NewQualifier(debounce, minPulse time.Duration, sink Sink) (*Qualifier, error) {
	if debounce <= 0 {
		debounce = DefaultDebounceWindow
	}
	if minPulse <= 0 {
		minPulse = DefaultMinPulseWidth
	}
	if minPulse < 2*debounce {
		return nil, ErrPulseWidth
	}
	return &Qualifier{
		debounce: debounce,
		minPulse: minPulse,
		sink:     sink,
		level:    true,
	}, nil
}

// Transition feeds one raw level change observed at time at. The
// timestamp source must be monotonic.
func (q *Qualifier) Transition(at time.Time) {
	if !q.seeded {
		// first-ever transition: nothing to debounce against
		q.seeded = true
		q.lastEdge = at
		q.level = !q.level
		return
	}

	dt := at.Sub(q.lastEdge)
	if dt < q.debounce {
		return // bounce noise, timestamp stays
	}

	q.level = !q.level
	q.lastEdge = at
	if q.level && dt >= q.minPulse {
		q.sink.Increment()
	}
}

// Level returns the current logical line level.
func (q *Qualifier) Level() bool { return q.level }
