package dispatch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/scribe/internal/event"
)

// Sentinel errors for the dispatch package.
var (
	// ErrIncompleteEvent is the panic value cause when Handle receives a
	// pattern instead of a payload.
	ErrIncompleteEvent = errors.New("incomplete event dispatched")

	// ErrNilPattern is the panic value cause when Add receives a nil pattern.
	ErrNilPattern = errors.New("pattern cannot be nil")

	// ErrNilCallback is the panic value cause when Add receives a nil callback.
	ErrNilCallback = errors.New("callback cannot be nil")
)

// HandlerError wraps an error returned by a callback.
type HandlerError struct {
	// RegistrationID identifies the registration whose callback failed.
	RegistrationID uuid.UUID

	// Kind is the kind of the event being dispatched.
	Kind event.Kind

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s for %s: %v", e.RegistrationID, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
