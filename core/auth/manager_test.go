package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitkit/splitkit/core/apiclient"
	"github.com/splitkit/splitkit/core/auth"
	"github.com/splitkit/splitkit/core/realtime"
	"github.com/splitkit/splitkit/core/session"
)

// fakeConn blocks until closed; the auth tests only care about connection
// state, not event traffic.
type fakeConn struct {
	closeOnce sync.Once
	closed    chan struct{}
}

func (c *fakeConn) ReadEvent() (realtime.Event, error) {
	<-c.closed
	return realtime.Event{}, realtime.ErrConnClosed
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

type fakeTransport struct {
	mu    sync.Mutex
	dials int
}

func (t *fakeTransport) Dial(context.Context, string) (realtime.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dials++
	return &fakeConn{closed: make(chan struct{})}, nil
}

func (t *fakeTransport) dialCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

type fixture struct {
	store      *session.Store
	manager    *auth.Manager
	supervisor *realtime.Supervisor
	transport  *fakeTransport
}

func newFixture(t *testing.T, apiURL, storedCredential string) *fixture {
	t.Helper()

	keyring := session.NewMemoryKeyring()
	if storedCredential != "" {
		require.NoError(t, keyring.Set(storedCredential))
	}
	store := session.NewStore(keyring)
	api := apiclient.New(apiURL, store)
	transport := &fakeTransport{}
	supervisor := realtime.NewSupervisor(transport, store)
	manager := auth.NewManager(store, api, supervisor)

	t.Cleanup(func() {
		manager.Close()
		supervisor.Close()
	})

	return &fixture{store: store, manager: manager, supervisor: supervisor, transport: transport}
}

const loginResponse = `{"success":true,"data":{"accessToken":"tok-login","user":{"id":"u1","name":"Ada","username":"ada","email":"a@b.com"}}}`
const meResponse = `{"success":true,"data":{"user":{"id":"u1","name":"Ada","username":"ada","email":"a@b.com","friends":[],"friendRequests":[]}}}`

func TestManager_Bootstrap(t *testing.T) {
	t.Parallel()

	t.Run("empty storage resolves immediately", func(t *testing.T) {
		t.Parallel()

		var apiCalled bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiCalled = true
		}))
		defer srv.Close()

		f := newFixture(t, srv.URL, "")

		require.NoError(t, f.manager.Bootstrap(context.Background()))
		assert.Equal(t, auth.StateUnauthenticated, f.manager.State())
		assert.False(t, apiCalled)
	})

	t.Run("valid persisted credential restores the session", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users/me", r.URL.Path)
			require.Equal(t, "Bearer tok-stored", r.Header.Get("Authorization"))
			w.Write([]byte(meResponse))
		}))
		defer srv.Close()

		f := newFixture(t, srv.URL, "tok-stored")

		require.NoError(t, f.manager.Bootstrap(context.Background()))

		assert.Equal(t, auth.StateAuthenticated, f.manager.State())
		require.NotNil(t, f.manager.CurrentUser())
		assert.Equal(t, "Ada", f.manager.CurrentUser().Name)
		assert.Equal(t, realtime.StateConnected, f.supervisor.State())
		assert.Equal(t, 1, f.transport.dialCount())
	})

	t.Run("stale credential is discarded", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"expired"}`))
		}))
		defer srv.Close()

		f := newFixture(t, srv.URL, "tok-stale")

		err := f.manager.Bootstrap(context.Background())
		require.Error(t, err)

		assert.Equal(t, auth.StateUnauthenticated, f.manager.State())
		assert.False(t, f.store.Get().HasCredential())
		assert.Equal(t, realtime.StateDisconnected, f.supervisor.State())
	})
}

func TestManager_Login(t *testing.T) {
	t.Parallel()

	t.Run("populates session and connects", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/login", r.URL.Path)
			w.Write([]byte(loginResponse))
		}))
		defer srv.Close()

		f := newFixture(t, srv.URL, "")

		var signals []*session.UserProfile
		f.manager.OnAuthChange(func(p *session.UserProfile) {
			signals = append(signals, p)
		})

		require.NoError(t, f.manager.Login(context.Background(), "a@b.com", "x"))

		sess := f.store.Get()
		assert.Equal(t, "tok-login", sess.Credential)
		require.True(t, sess.IsAuthenticated())
		assert.Equal(t, "Ada", sess.Profile.Name)
		assert.Equal(t, auth.StateAuthenticated, f.manager.State())
		assert.Equal(t, realtime.StateConnected, f.supervisor.State())

		require.Len(t, signals, 1)
		require.NotNil(t, signals[0])
		assert.Equal(t, "u1", signals[0].ID)
	})

	t.Run("failure surfaces the error and stays signed out", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"invalid credentials"}`))
		}))
		defer srv.Close()

		f := newFixture(t, srv.URL, "")

		err := f.manager.Login(context.Background(), "a@b.com", "wrong")
		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid credentials", apiErr.Message)

		assert.Equal(t, auth.StateUnauthenticated, f.manager.State())
		assert.False(t, f.store.Get().HasCredential())
		assert.Equal(t, 0, f.transport.dialCount())
	})
}

func TestManager_Logout(t *testing.T) {
	t.Parallel()

	t.Run("ends unauthenticated even when the remote call fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				w.Write([]byte(loginResponse))
			case "/auth/logout":
				// Simulate the server being unreachable mid-logout.
				conn, _, err := w.(http.Hijacker).Hijack()
				require.NoError(t, err)
				conn.Close()
			}
		}))
		defer srv.Close()

		f := newFixture(t, srv.URL, "")
		require.NoError(t, f.manager.Login(context.Background(), "a@b.com", "x"))

		f.manager.Logout(context.Background())

		sess := f.store.Get()
		assert.False(t, sess.HasCredential())
		assert.Nil(t, sess.Profile)
		assert.Equal(t, auth.StateUnauthenticated, f.manager.State())
		assert.Equal(t, realtime.StateDisconnected, f.supervisor.State())
	})

	t.Run("collapses duplicate signed-out signals", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				w.Write([]byte(loginResponse))
			case "/auth/logout":
				w.Write([]byte(`{"success":true,"message":"bye"}`))
			}
		}))
		defer srv.Close()

		f := newFixture(t, srv.URL, "")

		var signals []*session.UserProfile
		f.manager.OnAuthChange(func(p *session.UserProfile) {
			signals = append(signals, p)
		})

		require.NoError(t, f.manager.Login(context.Background(), "a@b.com", "x"))
		f.manager.Logout(context.Background())

		// One profile signal, one signed-out signal; the store clear and the
		// logout completion collapse into a single nil.
		require.Len(t, signals, 2)
		assert.NotNil(t, signals[0])
		assert.Nil(t, signals[1])
	})
}

func TestManager_LogoutWinsLoginRace(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	loginArrived := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			close(loginArrived)
			<-release
			w.Write([]byte(loginResponse))
		case "/auth/logout":
			w.Write([]byte(`{"success":true,"message":"bye"}`))
		}
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL, "")

	loginErr := make(chan error, 1)
	go func() {
		loginErr <- f.manager.Login(context.Background(), "a@b.com", "x")
	}()

	// Issue the logout while the login call is held open by the server, then
	// let the login response land.
	<-loginArrived
	logoutDone := make(chan struct{})
	go func() {
		f.manager.Logout(context.Background())
		close(logoutDone)
	}()
	time.Sleep(50 * time.Millisecond) // let the logout claim the race
	close(release)

	require.ErrorIs(t, <-loginErr, auth.ErrLoginSuperseded)
	<-logoutDone

	assert.Equal(t, auth.StateUnauthenticated, f.manager.State())
	assert.False(t, f.store.Get().HasCredential())
	assert.Equal(t, realtime.StateDisconnected, f.supervisor.State())
}

func TestManager_Register(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		w.Write([]byte(`{"success":true,"message":"account created"}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL, "")

	msg, err := f.manager.Register(context.Background(), apiclient.RegisterParams{
		Name: "Ada", Username: "ada", Email: "a@b.com", Password: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "account created", msg)

	// Registration does not sign in.
	assert.Equal(t, auth.StateUnauthenticated, f.manager.State())
	assert.False(t, f.store.Get().HasCredential())
}
