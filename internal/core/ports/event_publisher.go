package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// EventPublisher announces order events to external consumers.
// Delivery is at-least-once; consumers deduplicate on the event id.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event order.StatusChangedEvent) error
}
