// Package order holds the Order aggregate of the order service.
//
// The package includes:
//   - Order: identity, customer, opaque line items, total amount, status and timestamps
//   - Status: the six-state lifecycle and its static transition table
//   - StatusChangedEvent: the domain event emitted for every accepted transition
//
// Key business rules:
//   - new orders start as pending with created_at == updated_at
//   - UpdateStatus is the only mutator; it follows the transition table
//   - repeating the current status is an idempotent no-op
//   - delivered and cancelled are terminal
package order
