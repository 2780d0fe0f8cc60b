package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTransport          = errors.New("transport error")
	ErrRemote             = errors.New("remote call failed")
	ErrInvalidResponse    = errors.New("invalid response body")
	ErrSOAPFault          = errors.New("soap fault")
	ErrMalformedMetadata  = errors.New("malformed metadata")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSessionUnavailable = errors.New("session unavailable")
	ErrInvalidToken       = errors.New("invalid window token")
)

// RemoteError is returned by the CRM clients for every failed call.
// Kind is one of ErrTransport, ErrRemote, ErrInvalidResponse or ErrSOAPFault.
type RemoteError struct {
	Kind    error
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// NewRemoteError builds a RemoteError with a formatted message.
func NewRemoteError(kind error, status int, format string, args ...any) *RemoteError {
	return &RemoteError{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...)}
}
