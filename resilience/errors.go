package resilience

import "errors"

// Sentinel errors for producer decorators.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when a producer exceeds its time budget.
	ErrTimeout = errors.New("resilience: producer timed out")
)
