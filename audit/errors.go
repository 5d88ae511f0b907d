// audit/errors.go
package audit

import "errors"

// Failure taxonomy. Handlers map these to HTTP statuses; the engine never
// retries on its own and never writes anything before rejecting.
var (
	// ErrNotFound: a referenced template, run or plan does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: the operation is illegal for the document's current
	// lifecycle state (mutating a completed run, double-completing, bad
	// transition target).
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation: the input is malformed or missing required fields.
	ErrValidation = errors.New("validation failed")

	// ErrConcurrency: the store's atomicity contract was violated (for
	// example a duplicate open run). Treated as a programming error.
	ErrConcurrency = errors.New("concurrency violation")
)
