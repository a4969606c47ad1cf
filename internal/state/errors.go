package state

import "errors"

var (
	// ErrMalformedErrorPayload is returned when an error event carries no
	// response or a response without a message.
	ErrMalformedErrorPayload = errors.New("state: malformed error payload")

	// ErrInvariantViolation is returned when an event requires state that is
	// not present, such as a profile picture update with no signed-in user.
	ErrInvariantViolation = errors.New("state: invariant violation")

	// ErrUnknownEvent is returned for events Reduce does not recognise.
	ErrUnknownEvent = errors.New("state: unknown event")

	// ErrCacheWrite is returned when the cache mirror could not be updated.
	// The in-memory state has already advanced when it is reported.
	ErrCacheWrite = errors.New("state: cache write failed")
)
