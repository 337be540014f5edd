package session

import (
	"context"
	"sync"
	"time"
)

// Autosaver debounces background writes keyed by record id. Each Schedule
// call resets the record's timer; only the last write within the delay
// window runs. Used by detail-form fields that save as the user types.
type Autosaver struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewAutosaver creates an Autosaver with the given debounce delay.
func NewAutosaver(delay time.Duration) *Autosaver {
	return &Autosaver{
		delay:   delay,
		pending: make(map[string]*time.Timer),
	}
}

// Schedule queues fn to run after the debounce delay. A pending write for
// the same key is dropped; last write wins. fn runs on a timer goroutine
// with a background context since the originating request is gone by then.
func (a *Autosaver) Schedule(key string, fn func(ctx context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.pending[key]; ok {
		t.Stop()
	}
	a.pending[key] = time.AfterFunc(a.delay, func() {
		a.mu.Lock()
		delete(a.pending, key)
		a.mu.Unlock()

		fn(context.Background())
	})
}

// Cancel drops any pending write for the key without running it.
func (a *Autosaver) Cancel(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.pending[key]; ok {
		t.Stop()
		delete(a.pending, key)
	}
}

// Flush cancels all pending timers. Writes that already fired keep running.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, t := range a.pending {
		t.Stop()
		delete(a.pending, key)
	}
}
