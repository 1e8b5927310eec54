package apiclient

import (
	"context"
	"net/http"
)

// Group is a named set of members sharing expenses.
type Group struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Members   []Person `json:"members"`
	CreatedBy Person   `json:"createdBy"`
}

// MyGroups lists the groups the user belongs to.
func (c *Client) MyGroups(ctx context.Context) ([]Group, error) {
	var data struct {
		Groups []Group `json:"groups"`
	}
	if err := c.do(ctx, http.MethodGet, "/groups", nil, &data); err != nil {
		return nil, err
	}
	return data.Groups, nil
}

// CreateGroupParams names the group and its initial member user IDs.
type CreateGroupParams struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// CreateGroup creates a group and returns it.
func (c *Client) CreateGroup(ctx context.Context, params CreateGroupParams) (*Group, error) {
	var data struct {
		Group Group `json:"group"`
	}
	if err := c.do(ctx, http.MethodPost, "/groups", params, &data); err != nil {
		return nil, err
	}
	return &data.Group, nil
}
