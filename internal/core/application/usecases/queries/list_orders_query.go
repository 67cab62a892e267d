package queries

import (
	"errors"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery pages through orders, newest first, optionally narrowed to one
// customer and/or one status. A zero limit means DefaultListLimit.
//
// Example:
//
//	query, err := NewListOrdersQuery("c-1", "pending", 20, 0)
//	if err != nil {
//	    return err
//	}
//	summaries, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	customerID string
	status     order.Status
	limit      int
	offset     int

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(customerID, status string, limit, offset int) (ListOrdersQuery, error) {
	q := ListOrdersQuery{
		customerID: strings.TrimSpace(customerID),
		status:     order.Unknown,
		limit:      limit,
		offset:     offset,
	}

	if strings.TrimSpace(status) != "" {
		s, err := order.StatusFromString(status)
		if err != nil {
			return ListOrdersQuery{}, err
		}
		q.status = s
	}
	if q.limit == 0 {
		q.limit = DefaultListLimit
	}
	if q.limit < 1 || q.limit > MaxListLimit {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}
	if q.offset < 0 {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) CustomerID() string {
	return q.customerID
}

// Status returns order.Unknown when the listing is not filtered by status.
func (q ListOrdersQuery) Status() order.Status {
	return q.status
}

func (q ListOrdersQuery) Limit() int {
	return q.limit
}

func (q ListOrdersQuery) Offset() int {
	return q.offset
}

// OrderSummary is the list read model. Items are left out.
type OrderSummary struct {
	ID          kernel.UUID
	CustomerID  string
	TotalAmount kernel.Money
	Status      order.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
