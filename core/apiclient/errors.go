package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is the terminal authentication failure: the credential
	// was rejected and refreshing it failed. The session has already been
	// cleared; the caller must re-authenticate.
	ErrAuthRequired = errors.New("authentication required")
	// ErrMalformedResponse is returned when a response body cannot be parsed.
	ErrMalformedResponse = errors.New("malformed server response")
)

// APIError is a well-formed non-2xx business response. Message carries the
// server-supplied text verbatim; when the body was unparseable a generic
// status text is used instead.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
