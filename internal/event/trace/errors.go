package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete is returned when recording an event with unset or
	// predicate fields.
	ErrIncomplete = errors.New("cannot record incomplete event")

	// ErrMalformed is returned for a line that is not a valid record.
	ErrMalformed = errors.New("malformed trace record")

	// ErrUnknownKind is returned for a record of an unrecognized kind.
	ErrUnknownKind = errors.New("unknown event kind")
)

// DecodeError reports a bad line in a recording.
type DecodeError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("trace line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
