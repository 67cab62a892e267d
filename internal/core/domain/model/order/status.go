package order

import (
	"fmt"
	"strings"

	"orders/internal/pkg/errs"
)

// Status represents the fulfillment state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Processing ──> Shipped ──> Delivered
//	   │            │             │
//	   └────────────┴─────────────┴──────> Cancelled
//
// Delivered and Cancelled are terminal. A Status is replaced, never mutated,
// when an order moves along the table.
type Status int

const (
	// Unknown catches uninitialized values; it is never a legal order status.
	Unknown Status = iota
	Pending
	Confirmed
	Processing
	Shipped
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

// getTransitions is the complete transition table. Every valid status has an
// entry; terminal statuses map to an empty set.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // Unknown has no transitions
	return map[Status][]Status{
		Pending:    {Confirmed, Cancelled},
		Confirmed:  {Processing, Cancelled},
		Processing: {Shipped, Cancelled},
		Shipped:    {Delivered},
		Delivered:  {},
		Cancelled:  {},
	}
}

// Statuses lists the six valid statuses in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Confirmed, Processing, Shipped, Delivered, Cancelled}
}

// StatusFromString parses the lower-case wire name of a status.
// Surrounding whitespace and letter case are ignored.
func StatusFromString(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and values outside the enum.
func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name used in persistence, events and the HTTP API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether next is directly reachable from s.
// It is a pure lookup in the transition table; a status is never a successor
// of itself.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	allowed, ok := getTransitions()[s]
	return ok && len(allowed) == 0
}
