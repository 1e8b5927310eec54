package realtime

import "errors"

var (
	// ErrNoCredential is returned by Connect when called with an empty
	// credential.
	ErrNoCredential = errors.New("credential required to connect")
	// ErrConnClosed is returned by transport reads after Close.
	ErrConnClosed = errors.New("connection closed")
)
