// Package sentinel holds the infrastructure errors stores return, optionally
// wrapped. Callers match them with errors.Is and translate them into domain
// errors; input validation uses pkg/domain-errors instead.
package sentinel

import "errors"

var (
	// ErrConflict means the key is already taken, e.g. a reserved
	// idempotency key.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
