package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// LongPollTransport is the fallback for networks that block websockets. Each
// poll is an authorized GET returning a batch of events and the next cursor;
// the server holds the request open until events are available or its own
// poll window lapses.
type LongPollTransport struct {
	url        string
	httpClient *http.Client
}

// LongPollOption configures a LongPollTransport.
type LongPollOption func(*LongPollTransport)

// WithPollHTTPClient replaces the polling HTTP client. Its timeout must
// exceed the server's poll window.
func WithPollHTTPClient(httpClient *http.Client) LongPollOption {
	return func(t *LongPollTransport) {
		if httpClient != nil {
			t.httpClient = httpClient
		}
	}
}

// NewLongPollTransport creates a transport polling the http:// or https://
// endpoint at url.
func NewLongPollTransport(url string, opts ...LongPollOption) *LongPollTransport {
	t := &LongPollTransport{
		url:        url,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Dial validates the credential with an immediate poll. Events delivered by
// the handshake poll are buffered and surfaced through ReadEvent.
func (t *LongPollTransport) Dial(ctx context.Context, credential string) (Conn, error) {
	connCtx, cancel := context.WithCancel(context.Background())
	conn := &pollConn{
		transport:  t,
		credential: credential,
		ctx:        connCtx,
		cancel:     cancel,
	}

	batch, err := t.poll(ctx, credential, 0)
	if err != nil {
		cancel()
		return nil, err
	}
	conn.buffer = batch.Events
	conn.cursor = batch.Cursor
	return conn, nil
}

type pollBatch struct {
	Events []Event `json:"events"`
	Cursor uint64  `json:"cursor"`
}

func (t *LongPollTransport) poll(ctx context.Context, credential string, cursor uint64) (*pollBatch, error) {
	url := t.url + "?cursor=" + strconv.FormatUint(cursor, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("poll rejected (status %d)", resp.StatusCode)
	}

	var batch pollBatch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode poll batch: %w", err)
	}
	return &batch, nil
}

type pollConn struct {
	transport  *LongPollTransport
	credential string
	ctx        context.Context
	cancel     context.CancelFunc

	buffer []Event
	cursor uint64
}

// ReadEvent pops buffered events and polls for the next batch when the buffer
// runs dry. Empty batches are normal (the server's poll window lapsed) and
// polling continues.
func (c *pollConn) ReadEvent() (Event, error) {
	for {
		if len(c.buffer) > 0 {
			ev := c.buffer[0]
			c.buffer = c.buffer[1:]
			return ev, nil
		}

		if c.ctx.Err() != nil {
			return Event{}, ErrConnClosed
		}

		batch, err := c.transport.poll(c.ctx, c.credential, c.cursor)
		if err != nil {
			if c.ctx.Err() != nil {
				return Event{}, ErrConnClosed
			}
			return Event{}, err
		}
		c.buffer = batch.Events
		c.cursor = batch.Cursor
	}
}

func (c *pollConn) Close() error {
	c.cancel()
	return nil
}
