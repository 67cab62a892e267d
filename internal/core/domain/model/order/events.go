package order

import (
	"time"

	"orders/internal/core/domain/model/kernel"
)

// EventTypeStatusChanged names the event announcing an accepted status change.
const EventTypeStatusChanged = "order.status_updated"

// StatusChangedEvent records that an order moved from OldStatus to NewStatus.
type StatusChangedEvent struct {
	EventID    kernel.UUID
	OrderID    kernel.UUID
	OldStatus  Status
	NewStatus  Status
	OccurredAt time.Time
}

// NewStatusChangedEvent builds the event for o after UpdateStatus returned previous.
// OccurredAt is the order's updatedAt, so the event and the stored state agree.
func NewStatusChangedEvent(o *Order, previous Status) StatusChangedEvent {
	return StatusChangedEvent{
		EventID:    kernel.NewUUID(),
		OrderID:    o.ID(),
		OldStatus:  previous,
		NewStatus:  o.Status(),
		OccurredAt: o.UpdatedAt(),
	}
}

func (e StatusChangedEvent) Type() string {
	return EventTypeStatusChanged
}
