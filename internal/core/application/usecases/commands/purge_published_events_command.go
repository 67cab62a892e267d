package commands

import (
	"errors"
	"time"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const minPurgeRetention = time.Hour

var (
	ErrPurgePublishedEventsCommandIsNotConstructed = errors.New(
		"PurgePublishedEventsCommand must be created via NewPurgePublishedEventsCommand constructor",
	)
)

// PurgePublishedEventsCommand deletes delivered outbox records older than the
// retention window.
type PurgePublishedEventsCommand struct {
	retention time.Duration

	guard guard.ConstructorGuard
}

func NewPurgePublishedEventsCommand(retention time.Duration) (PurgePublishedEventsCommand, error) {
	if retention < minPurgeRetention {
		return PurgePublishedEventsCommand{}, errs.NewValueIsOutOfRangeError("retention", retention, minPurgeRetention, "unbounded")
	}
	return PurgePublishedEventsCommand{retention: retention, guard: guard.NewConstructorGuard()}, nil
}

func (c PurgePublishedEventsCommand) Validate() error {
	return c.guard.Validate(ErrPurgePublishedEventsCommandIsNotConstructed)
}

func (c PurgePublishedEventsCommand) Retention() time.Duration {
	return c.retention
}
