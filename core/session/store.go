package session

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Store is the mutable holder of the current Session. It is safe for
// concurrent use; change listeners are invoked sequentially with a snapshot
// taken under the lock, so observers never see a half-applied mutation.
type Store struct {
	mu        sync.RWMutex
	session   Session
	keyring   Keyring
	persist   bool
	listeners map[uuid.UUID]func(Session)
	logger    *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger configures structured logging for the store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store backed by the given keyring. Any previously
// persisted credential is loaded into memory immediately, leaving the session
// in the credential-present, profile-absent state until the credential is
// validated or cleared.
func NewStore(keyring Keyring, opts ...StoreOption) *Store {
	s := &Store{
		keyring:   keyring,
		persist:   keyring != nil,
		listeners: make(map[uuid.UUID]func(Session)),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.persist {
		credential, err := keyring.Get()
		switch {
		case err == nil:
			s.session.Credential = credential
		case !errors.Is(err, ErrCredentialNotFound):
			s.logger.Warn("credential storage read failed, continuing memory-only",
				slog.Any("error", err))
			s.persist = false
		}
	}

	return s
}

// Get returns a snapshot of the current session. Never fails.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SetCredential stores the bearer token in memory and, best-effort, in durable
// storage. A storage failure degrades the store to memory-only persistence for
// the remainder of the process; it is never surfaced to the caller.
func (s *Store) SetCredential(credential string) {
	s.mu.Lock()
	s.session.Credential = credential
	s.writeDurableLocked(credential)
	snapshot := s.session
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// SetProfile attaches the user profile to the current session. Callers are
// responsible for only setting a profile while a credential is held.
func (s *Store) SetProfile(profile *UserProfile) {
	s.mu.Lock()
	s.session.Profile = profile
	snapshot := s.session
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// Clear removes the credential, the profile, and the durable copy. Observers
// see a single transition to the empty session, never an intermediate state.
func (s *Store) Clear() {
	s.mu.Lock()
	s.session = Session{}
	if s.persist {
		if err := s.keyring.Delete(); err != nil {
			s.logger.Warn("credential storage delete failed, continuing memory-only",
				slog.Any("error", err))
			s.persist = false
		}
	}
	snapshot := s.session
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// OnChange registers a listener invoked after every mutation with a snapshot
// of the resulting session. The returned function removes the registration and
// is safe to call more than once.
func (s *Store) OnChange(listener func(Session)) (unsubscribe func()) {
	id := uuid.New()

	s.mu.Lock()
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) writeDurableLocked(credential string) {
	if !s.persist {
		return
	}
	if err := s.keyring.Set(credential); err != nil {
		s.logger.Warn("credential storage write failed, continuing memory-only",
			slog.Any("error", err))
		s.persist = false
	}
}

// listenersLocked snapshots the listener set so notification can happen
// outside the lock. Callers must hold s.mu.
func (s *Store) listenersLocked() []func(Session) {
	out := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(Session), snapshot Session) {
	for _, fn := range listeners {
		fn(snapshot)
	}
}
