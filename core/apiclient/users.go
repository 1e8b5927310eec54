package apiclient

import (
	"context"
	"net/http"

	"github.com/splitkit/splitkit/core/session"
)

// Me is the current user's full account view, a superset of the session
// profile.
type Me struct {
	session.UserProfile
	Friends        []string `json:"friends"`
	FriendRequests []string `json:"friendRequests"`
}

// CurrentUser fetches the authenticated account. It is the call bootstrap uses
// to validate a persisted credential.
func (c *Client) CurrentUser(ctx context.Context) (*Me, error) {
	var data struct {
		User Me `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}
