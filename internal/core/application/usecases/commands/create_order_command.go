package commands

import (
	"errors"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const maxIdempotencyKeyLength = 255

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand asks for a new pending order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("c-1", items, decimal.RequireFromString("100.00"), "BRL", "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID     string
	items          []order.Item
	totalAmount    kernel.Money
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request. An empty currency defaults to
// kernel.DefaultCurrency; an empty idempotencyKey disables deduplication.
func NewCreateOrderCommand(
	customerID string,
	items []order.Item,
	amount decimal.Decimal,
	currency string,
	idempotencyKey string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setItems(items),
		cmd.setTotalAmount(amount, currency),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() string {
	return c.customerID
}

func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

func (c CreateOrderCommand) TotalAmount() kernel.Money {
	return c.totalAmount
}

func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return errs.NewValueIsRequiredError("customer_id")
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	for _, item := range items {
		if item == nil {
			return errs.NewValueIsInvalidError("items")
		}
	}
	c.items = items
	return nil
}

func (c *CreateOrderCommand) setTotalAmount(amount decimal.Decimal, currency string) error {
	money, err := kernel.NewMoney(amount, currency)
	if err != nil {
		return err
	}
	c.totalAmount = money
	return nil
}

func (c *CreateOrderCommand) setIdempotencyKey(key string) error {
	if len(key) > maxIdempotencyKeyLength {
		return errs.NewValueIsOutOfRangeError("idempotency_key length", len(key), 0, maxIdempotencyKeyLength)
	}
	c.idempotencyKey = key
	return nil
}
