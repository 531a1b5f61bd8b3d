// Package condition implements the runtime's exception value: a single
// typed error carrying a Kind, an offending Value, an optional Cause, and
// a human-readable Detail string.
//
// Conditions are ordinary Go errors (they implement error, Is, and Unwrap)
// so they compose with errors.Is/errors.As and wrapped callers up the Go
// stack. The runtime raises one by returning it from Eval or Apply, and
// with-exception catches one whose Kind matches its keyword filter (any
// Kind for :any) and hands its handler only the Kind, as a keyword; the
// *Condition itself never becomes a Lisp value.
//
// Construct conditions with the Kind-specific helpers (ArityError,
// UnboundError, RangeError, ...) or with the Builder for the uncommon
// case of a condition that doesn't fit a canned constructor.
package condition
