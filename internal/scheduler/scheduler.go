package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mehedi/streambox/internal/catalog"
)

// Scheduler runs the periodic maintenance work: a full catalog snapshot
// refresh to recover from dropped change notifications, and a daily stats
// log line.
type Scheduler struct {
	feed *catalog.Feed
	cron *cron.Cron
}

func New(feed *catalog.Feed, refreshEvery time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		feed: feed,
		cron: cron.New(),
	}

	spec := fmt.Sprintf("@every %s", refreshEvery)
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	if _, err := s.cron.AddFunc("@daily", s.logStats); err != nil {
		return nil, fmt.Errorf("schedule stats: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[scheduler] periodic catalog refresh started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.feed.Refresh(ctx)
}

func (s *Scheduler) logStats() {
	snap := s.feed.Snapshot()
	var movies, series int
	for _, e := range snap.Entries {
		if e.IsSeries() {
			series++
		} else {
			movies++
		}
	}
	log.Printf("[scheduler] catalog: %d movies, %d series", movies, series)
}
