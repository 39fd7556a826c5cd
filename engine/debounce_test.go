package engine

import (
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(time.Second)

	base := time.Now().Add(5 * time.Second)

	if !d.Accept(base) {
		t.Fatal("expected first spaced event to be accepted")
	}

	t.Run("rejects within window", func(t *testing.T) {
		if d.Accept(base.Add(500 * time.Millisecond)) {
			t.Error("expected event 0.5s after last accepted to be rejected")
		}
	})

	t.Run("rejection leaves state unchanged", func(t *testing.T) {
		// base+0.5s was rejected above, so base+1s measures from base,
		// not from the rejected event.
		if !d.Accept(base.Add(time.Second)) {
			t.Error("expected event exactly one window after last accepted to be accepted")
		}
	})

	t.Run("acceptance advances the window", func(t *testing.T) {
		if d.Accept(base.Add(1500 * time.Millisecond)) {
			t.Error("expected event 0.5s after the new last-accepted to be rejected")
		}
	})
}

func TestDebouncerInitialWindow(t *testing.T) {
	d := NewDebouncer(time.Second)

	// The last-accepted time starts at construction, so an immediate event
	// falls inside the window.
	if d.Accept(time.Now()) {
		t.Error("expected event right after construction to be rejected")
	}
}
