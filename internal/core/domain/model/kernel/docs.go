// Package kernel holds the value objects shared by the order model:
//   - UUID: identity of orders and of the events they emit
//   - Money: a non-negative decimal amount tagged with a currency
//
// Values are immutable and safe for concurrent use.
package kernel
