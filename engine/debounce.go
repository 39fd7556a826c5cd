package engine

import "time"

// Debouncer suppresses change events arriving within a fixed window of the
// last accepted event. Not safe for concurrent use; it belongs to the single
// serialized event-handling path.
type Debouncer struct {
	interval     time.Duration
	lastAccepted time.Time
}

// NewDebouncer creates a Debouncer whose last-accepted time starts at now.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval:     interval,
		lastAccepted: time.Now(),
	}
}

// Accept reports whether an event at the given time should be handled.
// Rejection leaves the last-accepted time untouched.
func (d *Debouncer) Accept(eventTime time.Time) bool {
	if eventTime.Sub(d.lastAccepted) < d.interval {
		return false
	}
	d.lastAccepted = eventTime
	return true
}
