// Package messaging holds the broker-neutral wire format of order events. The
// rabbitmq and kafka subpackages put the same bytes on their transports.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"orders/internal/core/domain/model/order"
)

const ContentType = "application/json"

// StatusChangedMessage is the JSON body consumers receive.
type StatusChangedMessage struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Timestamp string `json:"timestamp"`
}

func NewStatusChangedMessage(event order.StatusChangedEvent) StatusChangedMessage {
	return StatusChangedMessage{
		EventID:   event.EventID.String(),
		EventType: event.Type(),
		OrderID:   event.OrderID.String(),
		OldStatus: event.OldStatus.String(),
		NewStatus: event.NewStatus.String(),
		Timestamp: event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

func EncodeStatusChanged(event order.StatusChangedEvent) ([]byte, error) {
	body, err := json.Marshal(NewStatusChangedMessage(event))
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.Type(), err)
	}
	return body, nil
}
