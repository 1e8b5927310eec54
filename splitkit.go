package splitkit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/splitkit/splitkit/core/apiclient"
	"github.com/splitkit/splitkit/core/auth"
	"github.com/splitkit/splitkit/core/config"
	"github.com/splitkit/splitkit/core/realtime"
	"github.com/splitkit/splitkit/core/session"
)

// Config holds the settings for a client instance. Load it from the
// environment with config.Load, or fill it in directly.
type Config struct {
	APIBaseURL     string        `env:"SPLITKIT_API_URL" envDefault:"http://localhost:8000/api"`
	SocketURL      string        `env:"SPLITKIT_SOCKET_URL" envDefault:"http://localhost:8000"`
	RequestTimeout time.Duration `env:"SPLITKIT_REQUEST_TIMEOUT" envDefault:"15s"`
	CredentialFile string        `env:"SPLITKIT_CREDENTIAL_FILE"`
}

// LoadConfig populates a Config from environment variables, reading a .env
// file first when one is present.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Option configures a Client.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	keyring        session.Keyring
	onAuthRequired func()
}

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithKeyring overrides credential storage. Useful for tests and for hosts
// with their own secret store.
func WithKeyring(k session.Keyring) Option {
	return func(o *options) {
		if k != nil {
			o.keyring = k
		}
	}
}

// WithAuthRequiredFunc registers a hook invoked once per terminal
// authentication failure, typically to route the host UI to its sign-in
// screen.
func WithAuthRequiredFunc(fn func()) Option {
	return func(o *options) {
		o.onAuthRequired = fn
	}
}

// Client bundles the session store, API client, realtime supervisor and auth
// manager into one isolated session world. Construct one per account; nothing
// is shared between instances.
type Client struct {
	store      *session.Store
	api        *apiclient.Client
	supervisor *realtime.Supervisor
	auth       *auth.Manager
}

// New wires up a client from the given configuration. Credentials persist to
// cfg.CredentialFile when set, otherwise they live in memory only.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	keyring := o.keyring
	if keyring == nil {
		if cfg.CredentialFile != "" {
			fk, err := session.NewFileKeyring(cfg.CredentialFile)
			if err != nil {
				return nil, fmt.Errorf("open credential file: %w", err)
			}
			keyring = fk
		} else {
			keyring = session.NewMemoryKeyring()
		}
	}

	var storeOpts []session.StoreOption
	var apiOpts []apiclient.Option
	var supOpts []realtime.SupervisorOption
	var mgrOpts []auth.ManagerOption
	if o.logger != nil {
		storeOpts = append(storeOpts, session.WithStoreLogger(o.logger))
		apiOpts = append(apiOpts, apiclient.WithLogger(o.logger))
		supOpts = append(supOpts, realtime.WithSupervisorLogger(o.logger))
		mgrOpts = append(mgrOpts, auth.WithManagerLogger(o.logger))
	}
	if cfg.RequestTimeout > 0 {
		apiOpts = append(apiOpts, apiclient.WithTimeout(cfg.RequestTimeout))
	}
	if o.onAuthRequired != nil {
		apiOpts = append(apiOpts, apiclient.WithAuthRequiredFunc(o.onAuthRequired))
	}

	store := session.NewStore(keyring, storeOpts...)
	api := apiclient.New(cfg.APIBaseURL, store, apiOpts...)
	transport := realtime.NewFallbackTransport(
		realtime.NewWebSocketTransport(websocketURL(cfg.SocketURL)),
		realtime.NewLongPollTransport(cfg.SocketURL),
	)
	supervisor := realtime.NewSupervisor(transport, store, supOpts...)
	manager := auth.NewManager(store, api, supervisor, mgrOpts...)

	return &Client{
		store:      store,
		api:        api,
		supervisor: supervisor,
		auth:       manager,
	}, nil
}

// websocketURL rewrites an http(s) endpoint to its websocket scheme so a
// single SocketURL setting serves both transports.
func websocketURL(u string) string {
	switch {
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	}
	return u
}

// Auth returns the session orchestrator (bootstrap, login, logout).
func (c *Client) Auth() *auth.Manager { return c.auth }

// API returns the authorized HTTP client for domain calls.
func (c *Client) API() *apiclient.Client { return c.api }

// Realtime returns the channel supervisor for event subscriptions.
func (c *Client) Realtime() *realtime.Supervisor { return c.supervisor }

// Session returns the current session snapshot.
func (c *Client) Session() session.Session { return c.store.Get() }

// Close releases the realtime channel and detaches internal listeners. The
// persisted credential is left untouched; use Auth().Logout to sign out.
func (c *Client) Close() {
	c.auth.Close()
	c.supervisor.Close()
}

// Logout is a convenience shorthand for Auth().Logout.
func (c *Client) Logout(ctx context.Context) {
	c.auth.Logout(ctx)
}
