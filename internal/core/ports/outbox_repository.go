package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OutboxMessage is a status change event waiting for delivery.
type OutboxMessage struct {
	Event     order.StatusChangedEvent
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// OutboxRepository stores events next to the state change that produced them.
// Its writes join the surrounding unit of work transaction.
type OutboxRepository interface {
	// Add stores the event as pending.
	Add(ctx context.Context, event order.StatusChangedEvent) error

	// GetPending returns up to limit pending messages created before olderThan,
	// oldest first. Inside a transaction the rows stay locked until commit and
	// rows locked by another transaction are skipped.
	GetPending(ctx context.Context, limit int, olderThan time.Time) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, eventID kernel.UUID) error

	// MarkFailed keeps the message pending and records the attempt.
	MarkFailed(ctx context.Context, eventID kernel.UUID, cause error) error

	// DeletePublished removes records published before the cutoff.
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}
