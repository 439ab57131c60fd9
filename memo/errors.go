package memo

import "errors"

// ErrNoDefinition is returned by Get and Update when the requested name has
// no registered producer, either because it was never defined or because it
// was destroyed and not redefined. Call-site errors wrap it, so callers can
// match with errors.Is; the "No definition found" message prefix is part of
// the public contract for callers that match on text.
var ErrNoDefinition = errors.New("No definition found")

// Registration errors.
var (
	// ErrInvalidName indicates an empty or blank definition name.
	ErrInvalidName = errors.New("memo: definition name is invalid")

	// ErrNilProducer indicates a definition without a producer function.
	ErrNilProducer = errors.New("memo: producer is nil")
)
