package commands

import (
	"errors"
	"time"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const maxPublishBatchSize = 1000

// PublishPendingEventsCommand drains one batch of the outbox.
//
// Example:
//
//	cmd, _ := NewPublishPendingEventsCommand(100, 10*time.Second)
//	handler := NewPublishPendingEventsCommandHandler(uowFactory, publisher)
//
//	// Run periodically to deliver events whose direct publish failed
//	ticker := time.NewTicker(5 * time.Second)
//	for range ticker.C {
//	    if _, err := handler.Handle(ctx, cmd); err != nil {
//	        log.Printf("outbox relay failed: %v", err)
//	    }
//	}
type PublishPendingEventsCommand struct {
	batchSize   int
	gracePeriod time.Duration

	guard guard.ConstructorGuard
}

var (
	ErrPublishPendingEventsCommandIsNotConstructed = errors.New(
		"PublishPendingEventsCommand must be created via NewPublishPendingEventsCommand constructor",
	)
)

// NewPublishPendingEventsCommand builds a relay run. Records younger than
// gracePeriod are left to the request that created them.
func NewPublishPendingEventsCommand(batchSize int, gracePeriod time.Duration) (PublishPendingEventsCommand, error) {
	if batchSize <= 0 || batchSize > maxPublishBatchSize {
		return PublishPendingEventsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, maxPublishBatchSize)
	}
	if gracePeriod < 0 {
		return PublishPendingEventsCommand{}, errs.NewValueIsOutOfRangeError("grace period", gracePeriod, 0, "unbounded")
	}

	return PublishPendingEventsCommand{
		batchSize:   batchSize,
		gracePeriod: gracePeriod,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c PublishPendingEventsCommand) Validate() error {
	return c.guard.Validate(ErrPublishPendingEventsCommandIsNotConstructed)
}

func (c PublishPendingEventsCommand) BatchSize() int {
	return c.batchSize
}

func (c PublishPendingEventsCommand) GracePeriod() time.Duration {
	return c.gracePeriod
}
