// Package errs holds the error values shared by the fulfillment core.
//
// Input problems are reported with the value errors:
//   - ValueIsRequiredError: a mandatory value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value falls outside its bounds
//   - ObjectNotFoundError: a referenced row does not exist
//
// Domain failures have their own types or sentinels: InvalidTransitionError
// for a status change the lifecycle forbids, InvalidOrderSetError for a batch
// request naming unusable orders, PersistenceFailureError for a storage error
// that aborted the transaction, and ErrNoCapacity, ErrAccessDenied,
// ErrPermissionDenied and friends for the rest.
//
// Every typed error unwraps to its sentinel, so errors.Is works on either.
// Adapters never switch on concrete types; they call KindOf, which maps any
// error produced by the core onto a closed set of kinds, and IsRetryable,
// which reports whether the surrounding transaction may be replayed.
package errs
