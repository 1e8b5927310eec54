package apiclient

import (
	"context"
	"net/http"

	"github.com/splitkit/splitkit/core/session"
)

// RegisterParams is the payload for account creation. UPIID is the optional
// payment address used for settling up.
type RegisterParams struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UPIID    string `json:"upiId,omitempty"`
}

// Register creates an account and returns the server acknowledgement message.
// Registration does not sign the user in; call Login afterwards.
func (c *Client) Register(ctx context.Context, params RegisterParams) (string, error) {
	return c.roundTrip(ctx, http.MethodPost, "/auth/register", params, nil)
}

// LoginResult carries the fresh credential and the authenticated profile.
type LoginResult struct {
	AccessToken string              `json:"accessToken"`
	User        session.UserProfile `json:"user"`
}

// Login exchanges email and password for a credential. The client does not
// store the result; session mutation is the auth manager's job.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout invalidates the credential server-side and returns the
// acknowledgement message. Callers treat failure as non-fatal: ending the
// local session never depends on the server.
func (c *Client) Logout(ctx context.Context) (string, error) {
	return c.roundTrip(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
