package commands

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/logging"
)

// PublishPendingEventsResult summarizes one relay run.
type PublishPendingEventsResult struct {
	Published int
	Failed    int
}

// PublishPendingEventsCommandHandler republishes outbox records that were not
// delivered by the request that wrote them.
//
// The batch is locked for the duration of the run, so concurrent relays never
// pick the same record. Once an event of an order fails, later events of the
// same order in the batch are skipped to keep per-order delivery ordered.
type PublishPendingEventsCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

func NewPublishPendingEventsCommandHandler(uowFactory OutboxUoWFactory, publisher ports.EventPublisher) PublishPendingEventsCommandHandler {
	return PublishPendingEventsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle publishes one batch. Publish failures are recorded on the record and
// counted, not returned; only storage failures abort the run.
func (h PublishPendingEventsCommandHandler) Handle(
	ctx context.Context,
	cmd PublishPendingEventsCommand,
) (PublishPendingEventsResult, error) {
	var result PublishPendingEventsResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()

	pending, err := outbox.GetPending(ctx, cmd.BatchSize(), h.now().Add(-cmd.GracePeriod()))
	if err != nil {
		return result, err
	}

	logger := logging.FromContext(ctx)
	blocked := make(map[kernel.UUID]struct{})

	for _, msg := range pending {
		if ctx.Err() != nil {
			break
		}
		if _, skip := blocked[msg.Event.OrderID]; skip {
			continue
		}

		if pubErr := h.publisher.PublishStatusChanged(ctx, msg.Event); pubErr != nil {
			logger.Warn("outbox relay publish failed",
				"event_id", msg.Event.EventID.String(),
				"order_id", msg.Event.OrderID.String(),
				"attempts", msg.Attempts+1,
				"error", pubErr,
			)
			blocked[msg.Event.OrderID] = struct{}{}
			result.Failed++
			if err = outbox.MarkFailed(ctx, msg.Event.EventID, pubErr); err != nil {
				return result, err
			}
			continue
		}

		result.Published++
		if err = outbox.MarkPublished(ctx, msg.Event.EventID); err != nil {
			return result, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	return result, nil
}
