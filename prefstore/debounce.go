package prefstore

import (
	"context"
	"sync"
	"time"

	"github.com/ByLCY/textfit/layout"
)

// DefaultDebounceDuration is the default write coalescing window.
const DefaultDebounceDuration = 250 * time.Millisecond

// DebouncedWriter coalesces rapid Set calls per role; only the last value written
// within the window reaches the store.
type DebouncedWriter struct {
	store    *Store
	duration time.Duration

	mu      sync.Mutex
	pending map[layout.TextRole]*pendingWrite
}

type pendingWrite struct {
	timer *time.Timer
	seq   uint64
	prefs layout.Preferences
}

// NewDebouncedWriter wraps store. If duration is 0, DefaultDebounceDuration is used.
func NewDebouncedWriter(store *Store, duration time.Duration) *DebouncedWriter {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &DebouncedWriter{
		store:    store,
		duration: duration,
		pending:  map[layout.TextRole]*pendingWrite{},
	}
}

// Set schedules prefs to be stored for role after the debounce window.
func (d *DebouncedWriter) Set(role layout.TextRole, prefs layout.Preferences) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[role]
	if !ok {
		p = &pendingWrite{}
		d.pending[role] = p
	}
	p.seq++
	p.prefs = prefs
	seq := p.seq
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(d.duration, func() {
		prefs, run := d.take(role, seq)
		if run {
			d.store.Set(context.Background(), role, prefs)
		}
	})
}

// take claims the pending write if seq is still the latest one scheduled.
func (d *DebouncedWriter) take(role layout.TextRole, seq uint64) (layout.Preferences, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[role]
	if !ok || p.seq != seq {
		return layout.Preferences{}, false
	}
	delete(d.pending, role)
	return p.prefs, true
}

// Flush writes every pending value immediately.
func (d *DebouncedWriter) Flush(ctx context.Context) {
	d.mu.Lock()
	pending := d.pending
	d.pending = map[layout.TextRole]*pendingWrite{}
	d.mu.Unlock()

	for role, p := range pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		d.store.Set(ctx, role, p.prefs)
	}
}

// Cancel drops every pending value.
func (d *DebouncedWriter) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	d.pending = map[layout.TextRole]*pendingWrite{}
}
