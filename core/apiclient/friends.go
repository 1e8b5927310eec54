package apiclient

import (
	"context"
	"net/http"
)

// Person is the compact user shape embedded across friend, group, and expense
// responses.
type Person struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Friends lists the user's confirmed friends.
func (c *Client) Friends(ctx context.Context) ([]Person, error) {
	var data struct {
		Friends []Person `json:"friends"`
	}
	if err := c.do(ctx, http.MethodGet, "/friends", nil, &data); err != nil {
		return nil, err
	}
	return data.Friends, nil
}

// SendFriendRequest sends a friend request to the given user.
func (c *Client) SendFriendRequest(ctx context.Context, friendID string) (string, error) {
	body := struct {
		FriendID string `json:"friendId"`
	}{FriendID: friendID}
	return c.roundTrip(ctx, http.MethodPost, "/friends/send", body, nil)
}

// AcceptFriendRequest accepts a pending friend request.
func (c *Client) AcceptFriendRequest(ctx context.Context, friendID string) (string, error) {
	body := struct {
		FriendID string `json:"friendId"`
	}{FriendID: friendID}
	return c.roundTrip(ctx, http.MethodPost, "/friends/accept", body, nil)
}
