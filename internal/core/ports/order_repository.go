package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderRepository is the durable store of order aggregates.
type OrderRepository interface {
	// Upsert creates or replaces the order keyed by its id. A uniqueness conflict
	// raised by the store fails with errs.ErrObjectAlreadyExists.
	Upsert(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ErrObjectNotFound when no order has the given id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
