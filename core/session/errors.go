package session

import "errors"

var (
	// ErrCredentialNotFound is returned by a Keyring when no credential is
	// persisted. Absence means unauthenticated, not failure.
	ErrCredentialNotFound = errors.New("no credential persisted")
	// ErrKeyringUnavailable is returned when the durable storage backend
	// cannot be reached at all.
	ErrKeyringUnavailable = errors.New("credential storage unavailable")
)
