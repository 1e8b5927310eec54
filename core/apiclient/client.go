package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/splitkit/splitkit/core/session"
	"github.com/splitkit/splitkit/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Client executes requests against the remote API with the current bearer
// credential attached. When an authorized call is rejected it refreshes the
// credential once, shared across all concurrently failing requests, and
// replays the original request exactly once.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          *session.Store
	logger         *slog.Logger
	onAuthRequired func()

	refreshMu sync.Mutex
	refresh   *refreshTicket
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger configures structured logging for the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAuthRequiredFunc registers the callback fired exactly once per terminal
// authentication failure, after the session has been cleared. The application
// uses it to route the user back to the login surface.
func WithAuthRequiredFunc(fn func()) Option {
	return func(c *Client) {
		c.onAuthRequired = fn
	}
}

// New creates a Client for the API at baseURL, reading and maintaining
// credentials through store.
func New(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// envelope is the uniform response shape of the remote API.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do round-trips one API call, discarding the envelope message. See roundTrip.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	_, err := c.roundTrip(ctx, method, path, in, out)
	return err
}

// roundTrip marshals in as the JSON body, attaches the current credential when
// one is held, dispatches, and decodes the response data into out. It returns
// the envelope message for acknowledgement-style endpoints.
//
// An authorization failure on a credentialed request runs the refresh-and-
// replay recovery; the replay's response is final, whatever it is. A 401 on an
// uncredentialed request (bad login) is a plain business error and is returned
// as such; there is nothing to refresh.
func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) (string, error) {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return "", fmt.Errorf("encode request body: %w", err)
		}
	}

	credential := c.store.Get().Credential
	resp, err := c.send(ctx, method, path, payload, credential)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && credential != "" {
		drain(resp)

		c.logger.Debug("credential rejected, recovering",
			logger.Component("apiclient"), slog.String("path", path))

		fresh, recoverErr := c.recoverCredential(ctx, credential)
		if recoverErr != nil {
			return "", recoverErr
		}
		if resp, err = c.send(ctx, method, path, payload, fresh); err != nil {
			return "", fmt.Errorf("%s %s (replay): %w", method, path, err)
		}
	}

	return c.decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, credential string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	return c.httpClient.Do(req)
}

// decode consumes and closes the response body. 2xx bodies unmarshal their
// data into out and return the envelope message; anything else becomes an
// *APIError carrying the server message, with the status text as fallback for
// unparseable bodies.
func (c *Client) decode(resp *http.Response, out any) (string, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	parseErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Message
		if parseErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{Status: resp.StatusCode, Message: message}
	}

	if parseErr != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, parseErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}
	return env.Message, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
