package sdk

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthorization: the server refused the identity or membership
	// behind a request. Never retried automatically.
	ErrAuthorization = errors.New("authorization rejected")

	// ErrNotFound: unknown call or room. The driver treats this as an
	// immediate terminal condition.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition: the requested call state change is illegal
	// from the call's current state, e.g. answering a rejected call.
	ErrInvalidTransition = errors.New("invalid call state transition")
)

// TransportError wraps local media or negotiation-engine failures. They
// terminate the driver without the relay ever being contacted.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is the raw HTTP failure, reachable through errors.As when
// the sentinel classification above is not enough.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
