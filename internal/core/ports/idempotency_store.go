package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
)

// IdempotencyStore remembers which order a client-supplied key produced.
// Keys are namespaced by scope, the customer id for order creation.
type IdempotencyStore interface {
	// TryLock claims scope/key for one in-flight request. It returns false when
	// another request already holds it.
	TryLock(ctx context.Context, scope, key string) (bool, error)

	// Release drops the claim so the client may retry after a failure.
	Release(ctx context.Context, scope, key string) error

	Remember(ctx context.Context, scope, key string, orderID kernel.UUID) error

	// Recall reports the order created for scope/key, if any.
	Recall(ctx context.Context, scope, key string) (kernel.UUID, bool, error)
}
