package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// Transfer is one suggested repayment in a settlement plan.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Settlement is the server-optimized view of who owes whom: net balances per
// user and the minimal transfer set that clears them.
type Settlement struct {
	Balances  map[string]float64 `json:"balances"`
	Transfers []Transfer         `json:"transfers"`
}

// GlobalSettlement fetches the settlement plan across all expenses. A
// non-empty userID scopes the plan to that user.
func (c *Client) GlobalSettlement(ctx context.Context, userID string) (*Settlement, error) {
	path := "/settlements/global"
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}

	var settlement Settlement
	if err := c.do(ctx, http.MethodGet, path, nil, &settlement); err != nil {
		return nil, err
	}
	return &settlement, nil
}
