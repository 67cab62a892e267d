package commands

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/logging"
)

// ErrDuplicateRequest is returned when another request holding the same
// idempotency key is still in flight.
var ErrDuplicateRequest = errors.New("duplicate idempotency key")

// CreateOrderCommandHandler creates pending orders. No event is published on
// creation; only status changes are announced.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, idempotencyStore)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	idempotency ports.IdempotencyStore
}

// NewCreateOrderCommandHandler accepts a nil idempotency store, in which case
// idempotency keys are ignored.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, idempotency ports.IdempotencyStore) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		idempotency: idempotency,
	}
}

// Handle mints an id, builds the order and upserts it in one transaction.
// With an idempotency key, a repeated request returns the order the first one
// created, and a concurrent duplicate fails with ErrDuplicateRequest.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	key := cmd.IdempotencyKey()
	if key == "" || h.idempotency == nil {
		return h.create(ctx, cmd)
	}

	scope := cmd.CustomerID()
	if id, ok, err := h.idempotency.Recall(ctx, scope, key); err != nil {
		return nil, err
	} else if ok {
		logging.FromContext(ctx).Info("replaying idempotent create", "order_id", id.String())
		return h.uowFactory.Create().OrderRepository().Get(ctx, id)
	}

	locked, err := h.idempotency.TryLock(ctx, scope, key)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrDuplicateRequest
	}

	created, err := h.create(ctx, cmd)
	if err != nil {
		if releaseErr := h.idempotency.Release(context.WithoutCancel(ctx), scope, key); releaseErr != nil {
			logging.FromContext(ctx).Warn("failed to release idempotency key", "error", releaseErr)
		}
		return nil, err
	}

	if err = h.idempotency.Remember(ctx, scope, key, created.ID()); err != nil {
		logging.FromContext(ctx).Warn("failed to remember idempotency key",
			"order_id", created.ID().String(), "error", err)
	}

	return created, nil
}

func (h CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	o, err := order.NewOrder(kernel.NewUUID(), cmd.CustomerID(), cmd.Items(), cmd.TotalAmount())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Upsert(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order created",
		"order_id", o.ID().String(),
		"customer_id", o.CustomerID(),
		"total_amount", o.TotalAmount().String(),
	)
	return o, nil
}
