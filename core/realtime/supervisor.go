package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitkit/splitkit/core/session"
	"github.com/splitkit/splitkit/pkg/backoff"
	"github.com/splitkit/splitkit/pkg/logger"
)

// Supervisor owns the single realtime connection and its subscription
// registry. All state transitions are serialized; concurrent Connect and
// Disconnect calls resolve to the last caller's intent via a generation
// counter, never a torn intermediate state.
type Supervisor struct {
	transport Transport
	store     *session.Store
	logger    *slog.Logger
	backoff   backoff.Exponential

	mu         sync.Mutex
	state      State
	credential string
	conn       Conn
	cancel     context.CancelFunc
	gen        uint64
	subs       map[uuid.UUID]registration
	storeUnsub func()
}

type registration struct {
	kind    EventKind
	handler Handler
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithSupervisorLogger configures structured logging for the supervisor.
func WithSupervisorLogger(l *slog.Logger) SupervisorOption {
	return func(s *Supervisor) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBackoff replaces the reconnection backoff policy.
func WithBackoff(b backoff.Exponential) SupervisorOption {
	return func(s *Supervisor) {
		s.backoff = b
	}
}

// NewSupervisor creates a supervisor over the given transport. The session
// store is watched so that clearing the credential, from any component,
// tears the channel down and interrupts a pending reconnect wait.
func NewSupervisor(transport Transport, store *session.Store, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		transport: transport,
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:      make(map[uuid.UUID]registration),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.storeUnsub = store.OnChange(func(snapshot session.Session) {
		if !snapshot.HasCredential() {
			s.Disconnect()
		}
	})

	return s
}

// State returns the current connection state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect establishes the channel with the given credential. It is
// idempotent: already connected (or connecting) with the same credential is a
// no-op, while a different credential disconnects first. A failed dial leaves
// the supervisor Faulted and returns the error.
func (s *Supervisor) Connect(ctx context.Context, credential string) error {
	if credential == "" {
		return ErrNoCredential
	}

	s.mu.Lock()
	if s.credential == credential && (s.state == StateConnected || s.state == StateConnecting) {
		s.mu.Unlock()
		return nil
	}

	wasConnected := s.teardownLocked()
	gen := s.gen
	s.credential = credential
	s.state = StateConnecting
	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	if wasConnected {
		s.dispatch(Event{Kind: EventDisconnected})
	}

	conn, err := s.transport.Dial(ctx, credential)

	s.mu.Lock()
	if s.gen != gen {
		// Superseded by a later Connect or Disconnect while dialing.
		s.mu.Unlock()
		cancel()
		if err == nil {
			_ = conn.Close()
		}
		return nil
	}
	if err != nil {
		s.state = StateFaulted
		s.cancel = nil
		s.mu.Unlock()
		cancel()
		s.dispatchError(err)
		return fmt.Errorf("dial realtime channel: %w", err)
	}
	s.conn = conn
	s.state = StateConnected
	s.mu.Unlock()

	s.logger.Debug("realtime channel connected", logger.Component("realtime"))
	s.dispatch(Event{Kind: EventConnected})

	go s.run(loopCtx, gen, conn)
	return nil
}

// Disconnect tears down the active connection unconditionally. Calling it
// while already disconnected is a no-op.
func (s *Supervisor) Disconnect() {
	s.mu.Lock()
	wasConnected := s.teardownLocked()
	s.state = StateDisconnected
	s.mu.Unlock()

	if wasConnected {
		s.logger.Debug("realtime channel disconnected", logger.Component("realtime"))
		s.dispatch(Event{Kind: EventDisconnected})
	}
}

// Close releases the supervisor: disconnects and stops watching the session
// store.
func (s *Supervisor) Close() {
	if s.storeUnsub != nil {
		s.storeUnsub()
	}
	s.Disconnect()
}

// Subscribe registers a handler for an event kind. The registry is
// independent of connection state; handlers registered while disconnected
// become active once connected.
func (s *Supervisor) Subscribe(kind EventKind, handler Handler) Subscription {
	sub := Subscription{id: uuid.New(), kind: kind}

	s.mu.Lock()
	s.subs[sub.id] = registration{kind: kind, handler: handler}
	s.mu.Unlock()

	return sub
}

// Unsubscribe removes a registration by its handle. Unknown handles are
// ignored.
func (s *Supervisor) Unsubscribe(sub Subscription) {
	s.mu.Lock()
	delete(s.subs, sub.id)
	s.mu.Unlock()
}

// teardownLocked invalidates the current connection generation and closes any
// active connection. Callers must hold s.mu and decide the resulting state.
func (s *Supervisor) teardownLocked() (wasConnected bool) {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
		wasConnected = true
	}
	s.credential = ""
	return wasConnected
}

// run reads events until the connection drops, then hands over to the
// reconnect loop. A generation mismatch means this loop has been superseded
// and must exit without touching supervisor state.
func (s *Supervisor) run(ctx context.Context, gen uint64, conn Conn) {
	current := conn
	for {
		ev, err := current.ReadEvent()
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			s.mu.Lock()
			if s.gen != gen {
				s.mu.Unlock()
				return
			}
			s.conn = nil
			s.state = StateConnecting
			s.mu.Unlock()

			_ = current.Close()
			s.logger.Debug("realtime channel lost",
				logger.Component("realtime"), logger.Error(err))
			s.dispatch(Event{Kind: EventDisconnected})

			next, ok := s.reconnect(ctx, gen)
			if !ok {
				return
			}
			current = next
			continue
		}
		s.dispatch(ev)
	}
}

// reconnect retries with exponential backoff while a credential is still
// held. It gives up when the context is cancelled, the generation moves on,
// or the credential disappears (dropping straight to Disconnected).
func (s *Supervisor) reconnect(ctx context.Context, gen uint64) (Conn, bool) {
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(s.backoff.Delay(attempt)):
		}

		credential := s.store.Get().Credential
		if credential == "" {
			s.mu.Lock()
			if s.gen == gen {
				s.state = StateDisconnected
			}
			s.mu.Unlock()
			return nil, false
		}

		conn, err := s.transport.Dial(ctx, credential)
		if err != nil {
			s.logger.Debug("realtime reconnect attempt failed",
				logger.Component("realtime"), logger.Error(err))
			s.dispatchError(err)
			continue
		}

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			_ = conn.Close()
			return nil, false
		}
		s.conn = conn
		s.state = StateConnected
		s.credential = credential
		s.mu.Unlock()

		s.logger.Debug("realtime channel reconnected",
			logger.Component("realtime"), slog.Int("attempts", attempt+1))
		s.dispatch(Event{Kind: EventConnected})
		return conn, true
	}
}

// dispatch routes an event to the handlers registered for its kind. Handlers
// run outside the supervisor lock, so they may subscribe, unsubscribe, or
// disconnect freely.
func (s *Supervisor) dispatch(ev Event) {
	s.mu.Lock()
	handlers := make([]Handler, 0, len(s.subs))
	for _, reg := range s.subs {
		if reg.kind == ev.Kind {
			handlers = append(handlers, reg.handler)
		}
	}
	s.mu.Unlock()

	for _, handler := range handlers {
		handler(ev)
	}
}

func (s *Supervisor) dispatchError(err error) {
	data, _ := json.Marshal(err.Error())
	s.dispatch(Event{Kind: EventError, Data: data})
}
