package catalog

import (
	"sync"
	"time"
)

// Rotator advances a cursor over the banner set on a fixed interval. It
// holds at a valid index whenever the set resizes and never advances while
// the set has one element or fewer. Cursor position is not persisted.
type Rotator struct {
	mu        sync.Mutex
	interval  time.Duration
	size      int
	index     int
	onAdvance func(int)
	stop      chan struct{}
	running   bool
}

// NewRotator creates a stopped rotator. onAdvance may be nil; when set it is
// called with the new index after every tick that actually advanced.
func NewRotator(interval time.Duration, onAdvance func(int)) *Rotator {
	return &Rotator{interval: interval, onAdvance: onAdvance}
}

// Start begins ticking. A non-positive interval means rotation is disabled
// and Start is a no-op.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.interval <= 0 {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	go r.run(r.stop)
}

// Stop halts the ticker. Safe to call more than once.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.stop)
}

func (r *Rotator) run(stop chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if idx, advanced := r.Advance(); advanced && r.onAdvance != nil {
				r.onAdvance(idx)
			}
		}
	}
}

// Advance performs one tick: cursor moves modulo size while size > 1.
// The second return reports whether the cursor actually moved.
func (r *Rotator) Advance() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size <= 1 {
		return r.index, false
	}
	r.index = (r.index + 1) % r.size
	return r.index, true
}

// Resize tells the rotator the banner set changed. The cursor is clamped
// back into range so a shrink between ticks cannot index past the bound.
func (r *Rotator) Resize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = n
	if n <= 1 {
		r.index = 0
	} else if r.index >= n {
		r.index = r.index % n
	}
}

func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}
