// Package queries contains read-only operations over orders.
package queries

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/logging"
)

// GetOrderQueryHandler reads an order through the repository. Every call goes
// to the store; nothing is cached.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound when no order has the requested id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			logging.FromContext(ctx).Warn("order not found", "order_id", query.OrderID().String())
		}
		return nil, err
	}

	return o, nil
}
