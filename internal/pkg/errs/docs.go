// Package errs holds the error kinds shared by the order domain, its use cases
// and the adapters that translate them into transport responses.
//
// Every kind is a sentinel plus a struct carrying the details:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input
//     that fails a domain rule; IsValidation matches all three.
//   - ObjectNotFoundError: no order (or other object) with the given id.
//   - ObjectAlreadyExistsError: the store refused a write on a taken identity.
//   - StatusTransitionIsInvalidError: the order state machine refused a move.
//
// Unwrap returns the sentinel, so callers classify with errors.Is and never
// depend on the struct type. Values rendered into messages are flattened onto
// one line.
package errs
