// Package outboxrepo stores order events in the order_outbox table until they
// are delivered to the broker.
package outboxrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/google/uuid"
)

// OutboxDTO is the row layout of the order_outbox table.
type OutboxDTO struct {
	EventID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventType   string     `gorm:"type:varchar(64);not null"`
	OldStatus   string     `gorm:"type:varchar(16);not null"`
	NewStatus   string     `gorm:"type:varchar(16);not null"`
	OccurredAt  time.Time  `gorm:"type:timestamptz;not null"`
	CreatedAt   time.Time  `gorm:"type:timestamptz;not null;autoCreateTime:false;index:idx_order_outbox_pending,where:published_at IS NULL"`
	PublishedAt *time.Time `gorm:"type:timestamptz"`
	Attempts    int        `gorm:"not null;default:0"`
	LastError   string     `gorm:"type:text;not null;default:''"`
}

func (OutboxDTO) TableName() string {
	return "order_outbox"
}

func fromEvent(event order.StatusChangedEvent, createdAt time.Time) OutboxDTO {
	return OutboxDTO{
		EventID:    event.EventID.Bytes(),
		OrderID:    event.OrderID.Bytes(),
		EventType:  event.Type(),
		OldStatus:  event.OldStatus.String(),
		NewStatus:  event.NewStatus.String(),
		OccurredAt: event.OccurredAt,
		CreatedAt:  createdAt,
	}
}

func toMessage(dto OutboxDTO) (ports.OutboxMessage, error) {
	eventID, err := kernel.UUIDFromBytes(dto.EventID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	oldStatus, err := order.StatusFromString(dto.OldStatus)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	newStatus, err := order.StatusFromString(dto.NewStatus)
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		Event: order.StatusChangedEvent{
			EventID:    eventID,
			OrderID:    orderID,
			OldStatus:  oldStatus,
			NewStatus:  newStatus,
			OccurredAt: dto.OccurredAt.UTC(),
		},
		Attempts:  dto.Attempts,
		LastError: dto.LastError,
		CreatedAt: dto.CreatedAt.UTC(),
	}, nil
}
