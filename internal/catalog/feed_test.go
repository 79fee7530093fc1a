package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mehedi/streambox/internal/models"
)

type fakeEntrySource struct {
	mu      sync.Mutex
	entries []models.Entry
	err     error
}

func (s *fakeEntrySource) set(entries []models.Entry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.err = err
}

func (s *fakeEntrySource) List(ctx context.Context) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Entry(nil), s.entries...), nil
}

type fakeSettingsSource struct {
	mu       sync.Mutex
	settings models.AppSettings
	err      error
}

func (s *fakeSettingsSource) set(settings models.AppSettings, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.err = err
}

func (s *fakeSettingsSource) Get(ctx context.Context) (models.AppSettings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.AppSettings{}, false, s.err
	}
	return s.settings, true, nil
}

type fakeNotifier struct {
	events chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan string, 8)}
}

func (n *fakeNotifier) Publish(ctx context.Context, channel string) error {
	n.events <- channel
	return nil
}

func (n *fakeNotifier) Subscribe(ctx context.Context, channels ...string) (<-chan string, error) {
	return n.events, nil
}

func waitForSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("subscription closed unexpectedly")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestFeedInitialSnapshot(t *testing.T) {
	entries := &fakeEntrySource{}
	entries.set([]models.Entry{{ID: "a", Title: "Alpha"}}, nil)
	settings := &fakeSettingsSource{}
	custom := models.DefaultSettings()
	custom.AppName = "TestBox"
	settings.set(custom, nil)

	feed := NewFeed(entries, settings, newFakeNotifier())
	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer feed.Stop()

	snap := feed.Snapshot()
	if len(snap.Entries) != 1 || snap.Entries[0].ID != "a" {
		t.Fatalf("unexpected initial entries: %+v", snap.Entries)
	}
	if snap.Settings.AppName != "TestBox" {
		t.Fatalf("unexpected initial settings: %+v", snap.Settings)
	}
}

func TestFeedReplacesSnapshotOnNotification(t *testing.T) {
	entries := &fakeEntrySource{}
	entries.set([]models.Entry{{ID: "a"}}, nil)
	settings := &fakeSettingsSource{}
	settings.set(models.DefaultSettings(), nil)
	notifier := newFakeNotifier()

	feed := NewFeed(entries, settings, notifier)
	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer feed.Stop()

	sub, cancel := feed.Subscribe()
	defer cancel()

	entries.set([]models.Entry{{ID: "b"}, {ID: "c"}}, nil)
	notifier.Publish(context.Background(), ChannelCatalog)

	deadline := time.After(time.Second)
	for {
		snap := waitForSnapshot(t, sub)
		if len(snap.Entries) == 2 && snap.Entries[0].ID == "b" {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("snapshot never replaced: %+v", snap.Entries)
		default:
		}
	}
}

func TestFeedEntriesDegradeToEmptyOnError(t *testing.T) {
	entries := &fakeEntrySource{}
	entries.set([]models.Entry{{ID: "a"}}, nil)
	settings := &fakeSettingsSource{}
	custom := models.DefaultSettings()
	custom.AppName = "KeepMe"
	settings.set(custom, nil)
	notifier := newFakeNotifier()

	feed := NewFeed(entries, settings, notifier)
	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer feed.Stop()

	entries.set(nil, errors.New("store down"))
	settings.set(models.AppSettings{}, errors.New("store down"))
	notifier.Publish(context.Background(), ChannelCatalog)
	notifier.Publish(context.Background(), ChannelSettings)

	deadline := time.Now().Add(time.Second)
	for {
		snap := feed.Snapshot()
		if len(snap.Entries) == 0 {
			if snap.Settings.AppName != "KeepMe" {
				t.Fatalf("settings lost last-known value: %+v", snap.Settings)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("entries never degraded to empty")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFeedStopSilencesSubscribers(t *testing.T) {
	entries := &fakeEntrySource{}
	settings := &fakeSettingsSource{}
	settings.set(models.DefaultSettings(), nil)
	notifier := newFakeNotifier()

	feed := NewFeed(entries, settings, notifier)
	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	sub, cancel := feed.Subscribe()
	defer cancel()

	feed.Stop()

	// The subscriber channel must be closed, and a racing notification must
	// not deliver anything.
	notifier.Publish(context.Background(), ChannelCatalog)
	select {
	case _, ok := <-sub:
		if ok {
			// Drain any snapshot broadcast before Stop; the channel must
			// still end up closed.
			if _, ok := <-sub; ok {
				t.Fatalf("received snapshot after Stop")
			}
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber channel not closed after Stop")
	}

	feed.Stop() // idempotent
}
