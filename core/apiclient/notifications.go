package apiclient

import (
	"context"
	"net/http"
	"time"
)

// Notification is a server-originated message for the user.
type Notification struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
	Sender    *Person   `json:"sender,omitempty"`
}

// Notifications lists the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var data struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &data); err != nil {
		return nil, err
	}
	return data.Notifications, nil
}
