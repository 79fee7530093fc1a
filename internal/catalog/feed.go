package catalog

import (
	"context"
	"log"
	"sync"

	"github.com/mehedi/streambox/internal/models"
)

// Change notification channels. Writers publish after every mutation; the
// feed reloads the full snapshot on every message, no diffing.
const (
	ChannelCatalog  = "catalog:changed"
	ChannelSettings = "settings:changed"
)

// EntrySource lists the whole catalog ordered by creation time descending.
type EntrySource interface {
	List(ctx context.Context) ([]models.Entry, error)
}

// SettingsSource fetches the singleton settings record.
type SettingsSource interface {
	Get(ctx context.Context) (models.AppSettings, bool, error)
}

// Notifier carries change events between writers and the feed.
type Notifier interface {
	Publish(ctx context.Context, channel string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan string, error)
}

// Snapshot is one consistent view of the catalog handed to consumers.
type Snapshot struct {
	Entries  []models.Entry     `json:"entries"`
	Settings models.AppSettings `json:"settings"`
}

// Feed keeps a live in-memory mirror of the catalog and settings. Every
// change notification replaces the whole snapshot. Entry load failures
// degrade to an empty list; settings failures keep the last-known value.
type Feed struct {
	entries  EntrySource
	settings SettingsSource
	notifier Notifier

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[chan Snapshot]struct{}
	active bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewFeed(entries EntrySource, settings SettingsSource, notifier Notifier) *Feed {
	return &Feed{
		entries:  entries,
		settings: settings,
		notifier: notifier,
		snap:     Snapshot{Settings: models.DefaultSettings()},
		subs:     make(map[chan Snapshot]struct{}),
	}
}

// Start loads the initial snapshot and begins consuming change events.
// The returned error only covers the subscription itself; snapshot load
// failures are fail-soft per the read-error policy.
func (f *Feed) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})

	f.mu.Lock()
	f.active = true
	f.mu.Unlock()

	f.Refresh(ctx)

	events, err := f.notifier.Subscribe(ctx, ChannelCatalog, ChannelSettings)
	if err != nil {
		log.Printf("[feed] subscribe failed, catalog degrades to empty: %v", err)
		f.setEntries(nil)
		close(f.done)
		return err
	}

	go f.loop(ctx, events)
	return nil
}

func (f *Feed) loop(ctx context.Context, events <-chan string) {
	defer close(f.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-events:
			if !ok {
				// Subscription died mid-flight: fail-safe-empty for
				// entries, settings keep their last-known value.
				log.Println("[feed] subscription closed, catalog degrades to empty")
				f.setEntries(nil)
				return
			}
			switch ch {
			case ChannelCatalog:
				f.reloadEntries(ctx)
			case ChannelSettings:
				f.reloadSettings(ctx)
			}
		}
	}
}

// Stop tears the feed down. No subscriber receives anything after Stop
// returns, even if a notification was in flight.
func (f *Feed) Stop() {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return
	}
	f.active = false
	subs := f.subs
	f.subs = make(map[chan Snapshot]struct{})
	f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	if f.done != nil {
		<-f.done
	}
	for ch := range subs {
		close(ch)
	}
}

// Refresh forces a full reload of both collections.
func (f *Feed) Refresh(ctx context.Context) {
	f.reloadEntries(ctx)
	f.reloadSettings(ctx)
}

// Snapshot returns a copy of the current mirror.
func (f *Feed) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Snapshot{
		Entries:  append([]models.Entry(nil), f.snap.Entries...),
		Settings: f.snap.Settings,
	}
}

// Subscribe registers a consumer. The channel holds the latest snapshot
// only; a slow consumer observes the newest state, not every intermediate
// one. The returned cancel func releases the subscription.
func (f *Feed) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *Feed) reloadEntries(ctx context.Context) {
	entries, err := f.entries.List(ctx)
	if err != nil {
		log.Printf("[feed] catalog reload failed, degrading to empty: %v", err)
		f.setEntries(nil)
		return
	}
	f.setEntries(entries)
}

func (f *Feed) reloadSettings(ctx context.Context) {
	settings, _, err := f.settings.Get(ctx)
	if err != nil {
		// Last-known settings stay in place.
		log.Printf("[feed] settings reload failed, keeping last value: %v", err)
		return
	}
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return
	}
	f.snap.Settings = settings
	f.mu.Unlock()
	f.broadcast()
}

func (f *Feed) setEntries(entries []models.Entry) {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return
	}
	f.snap.Entries = entries
	f.mu.Unlock()
	f.broadcast()
}

func (f *Feed) broadcast() {
	snap := f.Snapshot()
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.active {
		return
	}
	for ch := range f.subs {
		// Replace a pending snapshot instead of blocking.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
