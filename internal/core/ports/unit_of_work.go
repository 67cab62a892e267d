package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained from it
// use the transaction started by Begin; without one they run in autocommit.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback is a no-op when no transaction is active, so it can always be deferred.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	OutboxRepository() OutboxRepository
}
