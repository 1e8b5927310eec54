package auth

import "errors"

// ErrLoginSuperseded is returned by Login when a logout was issued while the
// login was in flight. The logout's outcome stands; the login result is
// discarded.
var ErrLoginSuperseded = errors.New("login superseded by logout")
