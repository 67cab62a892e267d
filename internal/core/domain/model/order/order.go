package order

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/mohae/deepcopy"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// clock returns the current instant at the precision the store keeps.
var clock = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Item is one line of an order. Its content is opaque to the domain and is
// kept exactly as supplied by the caller.
type Item map[string]any

// Order is the aggregate root for one customer purchase and its fulfillment status.
//
// Invariants:
//   - id is assigned once at construction and never changes
//   - status changes only through UpdateStatus, following the transition table
//   - updatedAt advances on every accepted status change and never otherwise
//   - createdAt is fixed at construction
type Order struct {
	id          kernel.UUID
	customerID  string
	items       []Item
	totalAmount kernel.Money
	status      Status
	createdAt   time.Time
	updatedAt   time.Time

	isConstructed bool
}

// NewOrder creates a Pending order whose created and updated timestamps are the
// same instant.
//
// Example:
//
//	total, _ := kernel.MoneyFromString("100.00", "BRL")
//	o, err := order.NewOrder(kernel.NewUUID(), "c-1", []order.Item{{"sku": "A1", "qty": 1}}, total)
func NewOrder(id kernel.UUID, customerID string, items []Item, totalAmount kernel.Money) (*Order, error) {
	now := clock()
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setTotalAmount(totalAmount),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state. It validates the same
// fields as NewOrder plus the stored status and timestamps.
func RestoreOrder(
	id kernel.UUID,
	customerID string,
	items []Item,
	totalAmount kernel.Money,
	status Status,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setTotalAmount(totalAmount),
		o.setStatus(status),
		o.setTimestamps(createdAt, updatedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() string {
	return o.customerID
}

// Items returns a deep copy, so callers cannot alter the aggregate through it.
func (o *Order) Items() []Item {
	return copyItems(o.items)
}

func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// UpdateStatus moves the order to requested and returns the status it had before.
//
// Requesting the current status is a no-op: the current status is returned and
// updatedAt is left alone. A transition missing from the table fails with
// errs.ErrStatusTransitionIsInvalid and leaves the order untouched.
//
// Example:
//
//	previous, err := o.UpdateStatus(order.Confirmed)
//	if errors.Is(err, errs.ErrStatusTransitionIsInvalid) {
//	    // reject the request
//	}
func (o *Order) UpdateStatus(requested Status) (Status, error) {
	if err := requested.Validate(); err != nil {
		return Unknown, err
	}

	if requested == o.status {
		return o.status, nil
	}

	if !o.status.CanTransitionTo(requested) {
		return Unknown, errs.NewStatusTransitionIsInvalidError(o.status.String(), requested.String())
	}

	previous := o.status
	o.status = requested
	o.touch()
	return previous, nil
}

// touch advances updatedAt. Clock readings that do not move forward, such as
// after a wall-clock step back, still yield a strictly later timestamp.
func (o *Order) touch() {
	now := clock()
	if !now.After(o.updatedAt) {
		now = o.updatedAt.Add(time.Microsecond)
	}
	o.updatedAt = now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return errs.NewValueIsRequiredError("customer_id")
	}
	o.customerID = customerID
	return nil
}

// setItems requires a non-nil slice; an empty order is allowed.
func (o *Order) setItems(items []Item) error {
	for i, item := range items {
		if item == nil {
			return errs.NewValueIsInvalidError("items[" + strconv.Itoa(i) + "]")
		}
	}
	o.items = copyItems(items)
	return nil
}

func (o *Order) setTotalAmount(totalAmount kernel.Money) error {
	if err := totalAmount.Validate(); err != nil {
		return err
	}
	o.totalAmount = totalAmount
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTimestamps(createdAt, updatedAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created_at")
	}
	if updatedAt.Before(createdAt) {
		return errs.NewValueIsOutOfRangeError("updated_at", updatedAt, createdAt, "unbounded")
	}
	o.createdAt = createdAt.UTC()
	o.updatedAt = updatedAt.UTC()
	return nil
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		cp, _ := deepcopy.Copy(map[string]any(item)).(map[string]any)
		out[i] = cp
	}
	return out
}
