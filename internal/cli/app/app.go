// Package app wires the client together: storage, session, API client, gateway, guard,
// navigator and screens. It also owns the reaction to an expired session.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/gateway"
	"github.com/storerate/storerate/internal/cli/guard"
	"github.com/storerate/storerate/internal/cli/nav"
	"github.com/storerate/storerate/internal/cli/session"
	"github.com/storerate/storerate/internal/cli/storage"
	"github.com/storerate/storerate/internal/cli/views"
	"github.com/storerate/storerate/internal/config"
)

// ErrSessionExpired is returned when the API rejected the stored session
var ErrSessionExpired = errors.New("your session has expired, please log in again")

// App is one running client
type App struct {
	Config   *config.Config
	Sessions *session.Store
	API      *client.Client
	Gateway  *gateway.Gateway
	Guard    *guard.Guard
	Nav      *nav.Navigator
	Views    *views.Renderer

	kv     storage.KeyValue
	logger zerolog.Logger
}

// Option customises New
type Option func(*options)

type options struct {
	kv         storage.KeyValue
	httpClient *http.Client
}

// WithStorage uses kv instead of the configured backend
func WithStorage(kv storage.KeyValue) Option {
	return func(o *options) { o.kv = kv }
}

// WithHTTPClient sets the http.Client used for API calls
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// New builds the client and restores any persisted session. Screens are written to out.
func New(cfg *config.Config, out io.Writer, logger zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	kv := o.kv
	if kv == nil {
		var err error
		kv, err = storage.Open(cfg.Session, cfg.API.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open session storage: %w", err)
		}
	}

	a := &App{
		Config: cfg,
		kv:     kv,
		logger: logger,
		Guard:  guard.New(nil),
	}

	a.Sessions = session.NewStore(kv, logger)
	st := a.Sessions.Restore()
	logger.Debug().
		Bool("authenticated", st.Authenticated()).
		Str("role", string(st.Role())).
		Str("backend", cfg.Session.Backend).
		Msg("Session restored")

	clientOpts := []client.Option{
		client.WithLogger(logger),
		client.WithUnauthorizedHandler(a.handleUnauthorized),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	a.API = client.New(cfg.API.BaseURL, a.Sessions, clientOpts...)

	a.Gateway = gateway.New(a.API.Auth, a.Sessions, logger)
	a.Nav = nav.New(a.Guard, a.Sessions, logger)
	a.Views = views.New(a.API, out, logger)
	return a, nil
}

// handleUnauthorized runs on every 401 to a request that carried the session token
func (a *App) handleUnauthorized(method, path string) {
	a.logger.Warn().Str("method", method).Str("path", path).Msg("Session rejected, logging out")
	if err := a.Sessions.Clear(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to clear stored session")
	}
	a.Nav.ForceLogin()
}

// Open navigates to path and renders whatever screen the guard settles on. When the
// screen's data load finds the session expired, the login screen is shown instead.
func (a *App) Open(ctx context.Context, path string) error {
	loc, err := a.Nav.Navigate(path)
	if err != nil {
		return err
	}

	err = a.Views.Render(ctx, a.Sessions.Snapshot(), loc)
	if errors.Is(err, client.ErrUnauthorized) && !a.Sessions.Snapshot().Authenticated() {
		if rerr := a.Views.Render(ctx, a.Sessions.Snapshot(), a.Nav.Current()); rerr != nil {
			return rerr
		}
		return ErrSessionExpired
	}
	return err
}

// Home opens the current role's home screen
func (a *App) Home(ctx context.Context) error {
	return a.Open(ctx, guard.RootPath)
}

// Close releases the session backend
func (a *App) Close() error {
	if c, ok := a.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
