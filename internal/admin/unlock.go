package admin

import (
	"sync"
	"time"
)

// TapWindow implements the secret admin gesture: 5 rapid taps on the logo
// within a rolling 2-second window reveal the panel. The count resets after
// the window of inactivity and after a successful reveal.
type TapWindow struct {
	mu      sync.Mutex
	window  time.Duration
	reveal  int
	count   int
	lastTap time.Time
	now     func() time.Time
}

func NewTapWindow() *TapWindow {
	return &TapWindow{
		window: 2 * time.Second,
		reveal: 5,
		now:    time.Now,
	}
}

// Tap records one tap and reports whether the gesture completed.
func (t *TapWindow) Tap() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.lastTap.IsZero() && now.Sub(t.lastTap) > t.window {
		t.count = 0
	}
	t.lastTap = now
	t.count++

	if t.count >= t.reveal {
		t.count = 0
		return true
	}
	return false
}
