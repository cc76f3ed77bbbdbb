package authapi

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is shown when neither the server nor the transport says anything useful
const DefaultFailureMessage = "Authentication failed"

// ErrEmptyResponse marks a 2xx answer without a body
var ErrEmptyResponse = errors.New("empty response body")

// TransportError covers unreachable servers and malformed responses
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx answer, optionally carrying the server's message
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// Message picks the text to show the user for a failed call: the server's message,
// then the error text, then DefaultFailureMessage
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultFailureMessage
}
