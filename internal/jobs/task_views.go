package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/mehedi/streambox/internal/catalog"
	"github.com/mehedi/streambox/internal/repository"
)

// ViewStore bumps an entry's view token.
type ViewStore interface {
	IncrementViews(ctx context.Context, id string) error
}

// EventNotifier announces the catalog change after a successful bump.
type EventNotifier interface {
	Publish(ctx context.Context, channel string) error
}

// ViewIncrementHandler processes views:increment tasks.
type ViewIncrementHandler struct {
	store    ViewStore
	notifier EventNotifier
}

func NewViewIncrementHandler(store ViewStore, notifier EventNotifier) *ViewIncrementHandler {
	return &ViewIncrementHandler{store: store, notifier: notifier}
}

func (h *ViewIncrementHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ViewIncrementPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.store.IncrementViews(ctx, payload.EntryID); err != nil {
		// The entry was deleted between enqueue and processing; drop it.
		if errors.Is(err, repository.ErrEntryNotFound) {
			log.Printf("[jobs] view increment for missing entry %s dropped", payload.EntryID)
			return nil
		}
		return fmt.Errorf("increment views for %s: %w", payload.EntryID, err)
	}

	if err := h.notifier.Publish(ctx, catalog.ChannelCatalog); err != nil {
		log.Printf("[jobs] view change notification failed: %v", err)
	}
	return nil
}
