package apiclient

import (
	"context"
	"net/http"
	"time"
)

// Split methods accepted by CreateExpense.
const (
	SplitEqual      = "equal"
	SplitExact      = "exact"
	SplitPercentage = "percentage"
)

// Share statuses within an expense split.
const (
	ShareStatusPending = "pending"
	ShareStatusPaid    = "paid"
)

// SplitDetail is one participant's share of an expense.
type SplitDetail struct {
	User       Person  `json:"user"`
	FinalShare float64 `json:"finalShare"`
	Status     string  `json:"status"`
}

// ExpenseGroup is the group reference attached to a group expense.
type ExpenseGroup struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Expense is a recorded shared cost and its split.
type Expense struct {
	ID           string        `json:"_id"`
	Description  string        `json:"description"`
	Amount       float64       `json:"amount"`
	PaidBy       Person        `json:"paidBy"`
	SplitDetails []SplitDetail `json:"splitDetails"`
	Group        *ExpenseGroup `json:"group,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// MyExpenses lists expenses the user participates in.
func (c *Client) MyExpenses(ctx context.Context) ([]Expense, error) {
	var data struct {
		Expenses []Expense `json:"expenses"`
	}
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, &data); err != nil {
		return nil, err
	}
	return data.Expenses, nil
}

// CustomSplit assigns an explicit amount (or percentage) to one user for the
// exact and percentage split methods.
type CustomSplit struct {
	User   string  `json:"user"`
	Amount float64 `json:"amount"`
}

// CreateExpenseParams describes a new expense. Group is optional; SplitMethod
// is one of SplitEqual, SplitExact, SplitPercentage, with CustomSplits
// required for the latter two.
type CreateExpenseParams struct {
	Description  string        `json:"description"`
	Amount       float64       `json:"amount"`
	SplitWith    []string      `json:"splitWith"`
	Group        string        `json:"group,omitempty"`
	SplitMethod  string        `json:"splitMethod"`
	CustomSplits []CustomSplit `json:"customSplits,omitempty"`
}

// CreateExpense records an expense and returns it with the server-computed
// split.
func (c *Client) CreateExpense(ctx context.Context, params CreateExpenseParams) (*Expense, error) {
	var data struct {
		Expense Expense `json:"expense"`
	}
	if err := c.do(ctx, http.MethodPost, "/expenses", params, &data); err != nil {
		return nil, err
	}
	return &data.Expense, nil
}
