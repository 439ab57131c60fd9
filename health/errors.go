package health

import "errors"

var (
	// ErrProbeFailed indicates an adapter probe round trip failed.
	ErrProbeFailed = errors.New("health: probe failed")

	// ErrCheckTimeout indicates a check did not finish within the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no checker is registered under the name.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
