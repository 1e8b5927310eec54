package session

// UserProfile is an immutable snapshot of the authenticated user, refreshed
// whenever the session is (re)established.
type UserProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UPIID    string `json:"upiId,omitempty"`
}

// Session is the tuple of bearer credential and user profile.
//
// A profile is only ever present alongside a credential. The converse does not
// hold: after bootstrap from durable storage the session carries a persisted
// credential that has not been validated yet, so Profile is nil.
type Session struct {
	// Credential is the opaque bearer token, empty when unauthenticated.
	// Validity is discovered only by a rejected authorized call; the client
	// never inspects the token.
	Credential string

	Profile *UserProfile
}

// IsAuthenticated reports whether the session holds a validated identity:
// both a credential and a profile.
func (s Session) IsAuthenticated() bool {
	return s.Credential != "" && s.Profile != nil
}

// HasCredential reports whether a bearer token is held, validated or not.
func (s Session) HasCredential() bool {
	return s.Credential != ""
}
