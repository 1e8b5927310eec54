package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/splitkit/splitkit/pkg/logger"
)

// refreshTicket is one in-flight credential refresh. Concurrent requests that
// hit an authorization failure while a refresh is running attach to the
// existing ticket instead of issuing their own refresh call: a successful
// refresh invalidates the credential the others would have presented.
type refreshTicket struct {
	done       chan struct{}
	credential string
	err        error
}

func (t *refreshTicket) resolve(credential string, err error) {
	t.credential = credential
	t.err = err
	close(t.done)
}

func (t *refreshTicket) await(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.credential, t.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// recoverCredential exchanges a rejected credential for a fresh one, joining
// the in-flight refresh when there is one. A request whose failure window has
// already been settled by an earlier recovery gets the settled outcome
// directly: the replacement credential, or ErrAuthRequired if the session was
// cleared. On refresh failure the session is cleared, the auth-required
// callback fires once, and every waiter receives ErrAuthRequired.
func (c *Client) recoverCredential(ctx context.Context, rejected string) (string, error) {
	c.refreshMu.Lock()
	if c.refresh != nil {
		ticket := c.refresh
		c.refreshMu.Unlock()
		return ticket.await(ctx)
	}

	switch current := c.store.Get().Credential; {
	case current == "":
		// A previous recovery already ended the session.
		c.refreshMu.Unlock()
		return "", ErrAuthRequired
	case current != rejected:
		// A previous recovery already replaced the credential.
		c.refreshMu.Unlock()
		return current, nil
	}

	ticket := &refreshTicket{done: make(chan struct{})}
	c.refresh = ticket
	c.refreshMu.Unlock()

	credential, err := c.callRefresh(ctx)
	if err != nil {
		c.logger.Info("credential refresh failed, session terminated",
			logger.Component("apiclient"), logger.Error(err))
		c.store.Clear()
		terminal := errors.Join(ErrAuthRequired, err)
		c.finishRefresh(ticket, "", terminal)
		if c.onAuthRequired != nil {
			c.onAuthRequired()
		}
		return "", terminal
	}

	c.store.SetCredential(credential)
	c.finishRefresh(ticket, credential, nil)
	c.logger.Debug("credential refreshed", logger.Component("apiclient"))
	return credential, nil
}

// finishRefresh publishes the outcome. The store mutation must already have
// happened: waiters and late arrivals alike must observe the settled store the
// moment the ticket resolves.
func (c *Client) finishRefresh(ticket *refreshTicket, credential string, err error) {
	c.refreshMu.Lock()
	if c.refresh == ticket {
		c.refresh = nil
	}
	c.refreshMu.Unlock()

	ticket.resolve(credential, err)
}

// callRefresh hits the refresh endpoint with the credential currently held.
// It performs no recovery of its own: any failure here is terminal.
func (c *Client) callRefresh(ctx context.Context) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, c.store.Get().Credential)
	if err != nil {
		return "", fmt.Errorf("POST /auth/refresh: %w", err)
	}

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if _, err := c.decode(resp, &data); err != nil {
		return "", err
	}
	if data.AccessToken == "" {
		return "", fmt.Errorf("%w: refresh response missing access token", ErrMalformedResponse)
	}
	return data.AccessToken, nil
}
