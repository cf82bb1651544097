// Package progress tracks lesson consumption positions and syncs them to
// the server on a debounced schedule so rapid page flips and video seeks
// collapse into one write.
package progress

import (
	"sync"
	"time"
)

// Debouncer coalesces repeated calls per key: only the last function
// scheduled within the delay window runs. Keys are independent.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]*pendingCall
}

type pendingCall struct {
	timer *time.Timer
	fn    func()
}

// NewDebouncer creates an empty debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{pending: make(map[string]*pendingCall)}
}

// Schedule arms fn to run after delay. A previous pending call for the same
// key is dropped; last write wins.
func (d *Debouncer) Schedule(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	p := &pendingCall{fn: fn}
	p.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		// The entry may have been replaced or flushed while the timer fired.
		if d.pending[key] != p {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
	d.pending[key] = p
}

// Cancel drops the pending call for key without running it.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Flush runs the pending call for key immediately, if any.
func (d *Debouncer) Flush(key string) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
	d.mu.Unlock()

	if ok {
		p.fn()
	}
}

// FlushAll runs every pending call immediately. Used on lesson switch and
// shutdown so buffered positions are not lost.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	calls := make([]*pendingCall, 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
		calls = append(calls, p)
	}
	d.mu.Unlock()

	for _, p := range calls {
		p.fn()
	}
}

// Pending reports whether a call is buffered for key.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}
