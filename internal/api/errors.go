package api

import (
	"errors"
	"fmt"
)

// Error is returned by every client call that reached the server. Transport
// failures (no response at all) are wrapped plain errors, not *Error.
type Error struct {
	Op         string
	Path       string
	StatusCode int
	// Message is the envelope's error field, or the response body excerpt
	// when the status was not 2xx.
	Message string
	// Envelope is set when the server answered 2xx but reported an error in
	// the body.
	Envelope bool
}

func (e *Error) Error() string {
	if e.Envelope {
		return fmt.Sprintf("%s %s: server error: %s", e.Op, e.Path, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Op, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Op, e.Path, e.StatusCode, e.Message)
}

// IsEnvelopeError reports whether err carries an error reported inside a
// successful response envelope.
func IsEnvelopeError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Envelope
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
