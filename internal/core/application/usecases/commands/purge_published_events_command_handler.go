package commands

import (
	"context"
	"time"

	"orders/internal/pkg/logging"
)

// PurgePublishedEventsCommandHandler runs outside a transaction; the delete is
// a single statement.
type PurgePublishedEventsCommandHandler struct {
	uowFactory OutboxUoWFactory
	now        func() time.Time
}

func NewPurgePublishedEventsCommandHandler(uowFactory OutboxUoWFactory) PurgePublishedEventsCommandHandler {
	return PurgePublishedEventsCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle returns the number of deleted records.
func (h PurgePublishedEventsCommandHandler) Handle(ctx context.Context, cmd PurgePublishedEventsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	deleted, err := h.uowFactory.Create().OutboxRepository().DeletePublished(ctx, h.now().Add(-cmd.Retention()))
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		logging.FromContext(ctx).Info("purged published outbox records", "deleted", deleted)
	}
	return deleted, nil
}
