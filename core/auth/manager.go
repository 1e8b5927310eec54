package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/splitkit/splitkit/core/apiclient"
	"github.com/splitkit/splitkit/core/realtime"
	"github.com/splitkit/splitkit/core/session"
	"github.com/splitkit/splitkit/pkg/logger"
)

// Manager drives the session state machine over the store, the API client,
// and the realtime supervisor. One manager owns one session.
type Manager struct {
	store      *session.Store
	api        *apiclient.Client
	supervisor *realtime.Supervisor
	logger     *slog.Logger

	// opMu serializes bootstrap, login, and logout. Their store mutations
	// never interleave.
	opMu sync.Mutex

	// epoch is bumped by logout before it takes opMu. A login that captured
	// an older epoch discards its success instead of resurrecting the
	// session.
	epoch atomic.Uint64

	mu         sync.Mutex
	state      State
	published  bool // whether the last signal was a profile (vs signed-out)
	listeners  map[uuid.UUID]func(*session.UserProfile)
	storeUnsub func()
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger configures structured logging for the manager.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager wires the session orchestrator. It watches the store so that a
// session cleared by any component (the executor's terminal authentication
// failure path included) is republished as signed-out.
func NewManager(store *session.Store, api *apiclient.Client, supervisor *realtime.Supervisor, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		api:        api,
		supervisor: supervisor,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners:  make(map[uuid.UUID]func(*session.UserProfile)),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.storeUnsub = store.OnChange(func(snapshot session.Session) {
		if !snapshot.HasCredential() {
			m.mu.Lock()
			m.state = StateUnauthenticated
			m.mu.Unlock()
			m.publish(nil)
		}
	})

	return m
}

// Close stops watching the session store.
func (m *Manager) Close() {
	if m.storeUnsub != nil {
		m.storeUnsub()
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated profile, or nil when signed out.
func (m *Manager) CurrentUser() *session.UserProfile {
	return m.store.Get().Profile
}

// OnAuthChange registers a listener for the authenticated-state signal: the
// profile on sign-in, nil on sign-out. Consecutive signed-out signals are
// collapsed, so a logout that clears the store does not fire twice.
func (m *Manager) OnAuthChange(listener func(*session.UserProfile)) (unsubscribe func()) {
	id := uuid.New()

	m.mu.Lock()
	m.listeners[id] = listener
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Bootstrap restores the session persisted by a previous process. With no
// stored credential it resolves immediately to Unauthenticated. A stored
// credential is validated by fetching the profile; any failure clears the
// session and leaves the manager Unauthenticated, returning the cause.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !m.store.Get().HasCredential() {
		m.setState(StateUnauthenticated)
		return nil
	}

	m.setState(StateBootstrapping)
	me, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.logger.Info("bootstrap failed, discarding persisted credential",
			logger.Component("auth"), logger.Error(err))
		m.store.Clear()
		m.setState(StateUnauthenticated)
		return err
	}

	profile := me.UserProfile
	m.store.SetProfile(&profile)
	m.connect(ctx)
	m.setState(StateAuthenticated)
	m.publish(&profile)
	return nil
}

// Login authenticates with email and password. On success the session is
// populated, the realtime channel connected, and the authenticated signal
// published. Concurrent logins are serialized; a logout issued while this
// login is in flight wins, and the login returns ErrLoginSuperseded.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	epoch := m.epoch.Load()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.epoch.Load() != epoch {
		return ErrLoginSuperseded
	}

	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if m.epoch.Load() != epoch {
		m.logger.Debug("discarding login result, logout won the race",
			logger.Component("auth"))
		return ErrLoginSuperseded
	}

	m.store.SetCredential(result.AccessToken)
	profile := result.User
	m.store.SetProfile(&profile)
	m.connect(ctx)
	m.setState(StateAuthenticated)
	m.publish(&profile)

	m.logger.Debug("login succeeded", logger.Component("auth"),
		slog.String("user_id", profile.ID))
	return nil
}

// Register creates an account and returns the server acknowledgement. It does
// not sign the user in.
func (m *Manager) Register(ctx context.Context, params apiclient.RegisterParams) (string, error) {
	return m.api.Register(ctx, params)
}

// Logout ends the session local-first: the remote call is best-effort and its
// failure is only logged, after which the store is cleared and the realtime
// channel disconnected unconditionally. The client always ends
// Unauthenticated.
func (m *Manager) Logout(ctx context.Context) {
	m.epoch.Add(1)

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.setState(StateLoggingOut)

	if m.store.Get().HasCredential() {
		if _, err := m.api.Logout(ctx); err != nil {
			m.logger.Warn("remote logout failed, ending session locally",
				logger.Component("auth"), logger.Error(err))
		}
	}

	m.store.Clear()
	m.supervisor.Disconnect()
	m.setState(StateUnauthenticated)
	m.publish(nil)
}

// connect opens the realtime channel for the current credential. Connection
// failure does not fail the session: the supervisor owns recovery.
func (m *Manager) connect(ctx context.Context) {
	credential := m.store.Get().Credential
	if err := m.supervisor.Connect(ctx, credential); err != nil {
		m.logger.Warn("realtime connect failed",
			logger.Component("auth"), logger.Error(err))
	}
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// publish fires the authenticated signal. Nil (signed-out) signals are
// collapsed: observers see each sign-out once no matter how many components
// cleared state on the way down.
func (m *Manager) publish(profile *session.UserProfile) {
	m.mu.Lock()
	if profile == nil && !m.published {
		m.mu.Unlock()
		return
	}
	m.published = profile != nil
	listeners := make([]func(*session.UserProfile), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(profile)
	}
}
