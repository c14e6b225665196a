package gateway

import (
	"errors"
	"fmt"
)

// ErrNotConfigured reports that no store credentials are present.
// It is fatal for persisted mode and never retried.
var ErrNotConfigured = errors.New("gateway: remote store not configured")

// TransportError is a query or network failure talking to the store.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

// IsTransport reports whether err carries a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
