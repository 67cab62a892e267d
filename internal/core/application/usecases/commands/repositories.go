// Package commands contains the operations that change order state.
// Every command is validated, runs inside a unit of work and reports failures
// with the errs taxonomy.
package commands

import (
	"context"

	"orders/internal/core/ports"
)

// Unit of work views narrowed to what each handler touches.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW is used by commands that only write orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW is used by the relay, which only touches outbox rows.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// UoW writes an order and its outbox record atomically.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   _ = uow.OrderRepository().Upsert(ctx, o)
	//   _ = uow.OutboxRepository().Add(ctx, event)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		OutboxRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
