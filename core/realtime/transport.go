package realtime

import (
	"context"
	"errors"
)

// Transport dials the realtime endpoint with a credential presented at
// handshake time.
type Transport interface {
	Dial(ctx context.Context, credential string) (Conn, error)
}

// Conn is one established channel. ReadEvent blocks until an event arrives or
// the connection fails; after Close it returns ErrConnClosed.
type Conn interface {
	ReadEvent() (Event, error)
	Close() error
}

// FallbackTransport tries each transport in order and connects through the
// first that succeeds. Callers never observe which one carried the
// connection.
type FallbackTransport struct {
	transports []Transport
}

// NewFallbackTransport chains transports in preference order.
func NewFallbackTransport(transports ...Transport) *FallbackTransport {
	return &FallbackTransport{transports: transports}
}

func (t *FallbackTransport) Dial(ctx context.Context, credential string) (Conn, error) {
	if len(t.transports) == 0 {
		return nil, errors.New("no transports configured")
	}

	var lastErr error
	for _, transport := range t.transports {
		conn, err := transport.Dial(ctx, credential)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
