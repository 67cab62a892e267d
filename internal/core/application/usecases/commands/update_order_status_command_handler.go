package commands

import (
	"context"
	"errors"
	"fmt"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/logging"
)

// ErrStatusChangeNotPublished wraps a failure that happened after the new status
// was committed. The order is already updated and its event stays in the outbox
// for the relay; callers must not treat this error as "nothing changed".
var ErrStatusChangeNotPublished = errors.New("status change committed but event not published")

// UpdateOrderStatusCommandHandler moves an order along its lifecycle and
// announces the change.
//
// Steps, in order:
//  1. load the order (errs.ErrObjectNotFound when absent)
//  2. apply the transition (errs.ErrStatusTransitionIsInvalid when refused)
//  3. upsert the order and add the event to the outbox in one transaction
//  4. publish the event, then mark the outbox record as published
//
// Nothing is written or published when step 1 or 2 fails. The store is always
// at least as current as the last published event.
//
// Example:
//
//	cmd, _ := NewUpdateOrderStatusCommand(orderID, order.Confirmed)
//	updated, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrStatusChangeNotPublished):
//	    // status changed, event delivery deferred to the relay
//	case err != nil:
//	    // nothing changed
//	}
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

func NewUpdateOrderStatusCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx).With("order_id", cmd.OrderID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			logger.Warn("order not found")
		}
		return nil, err
	}

	previous, err := o.UpdateStatus(cmd.Status())
	if err != nil {
		logger.Warn("status transition refused", "from", o.Status().String(), "to", cmd.Status().String())
		return nil, err
	}

	event := order.NewStatusChangedEvent(o, previous)

	if err = uow.OrderRepository().Upsert(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.OutboxRepository().Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info("order status updated",
		"old_status", previous.String(),
		"new_status", o.Status().String(),
		"event_id", event.EventID.String(),
	)

	// The caller may have gone away while the transaction ran; the relay
	// delivers the stored event later.
	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatusChangeNotPublished, err)
	}

	if err = h.publisher.PublishStatusChanged(ctx, event); err != nil {
		logger.Error("failed to publish status change", "event_id", event.EventID.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStatusChangeNotPublished, err)
	}

	if err = uow.OutboxRepository().MarkPublished(ctx, event.EventID); err != nil {
		logger.Warn("failed to mark outbox record published", "event_id", event.EventID.String(), "error", err)
	}

	return o, nil
}
