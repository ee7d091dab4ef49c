package core

import (
	"testing"
	"time"
)

const eventWait = 2 * time.Second

// awaitEvent drains the channel until an event of the wanted kind arrives,
// failing the test if none shows up within the wait window.
func awaitEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	timeout := time.After(eventWait)
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event of kind %v within %v", kind, eventWait)
			return nil
		}
	}
}
