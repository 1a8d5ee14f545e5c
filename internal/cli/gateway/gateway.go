// Package gateway is the only writer of the session: it turns login, signup, logout and
// password changes into API calls and session updates, and reports every outcome as a
// Result instead of an error.
package gateway

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/session"
)

// Result is what a form shows after an auth action
type Result struct {
	Success bool
	Message string
}

func ok(msg string) Result     { return Result{Success: true, Message: msg} }
func failed(msg string) Result { return Result{Message: msg} }

// AuthService is the subset of the API the gateway needs; *client.AuthAPI satisfies it.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*client.AuthPayload, error)
	Signup(ctx context.Context, req client.SignupRequest) (*client.AuthPayload, error)
	Profile(ctx context.Context) (*client.User, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// Sessions is the session store as the gateway sees it
type Sessions interface {
	Set(identity session.Identity, token string) error
	Clear() error
	UpdateIdentity(u session.IdentityUpdate) error
	Snapshot() session.State
}

// Gateway implements the auth actions
type Gateway struct {
	auth     AuthService
	sessions Sessions
	logger   zerolog.Logger
}

// New creates a gateway
func New(auth AuthService, sessions Sessions, logger zerolog.Logger) *Gateway {
	return &Gateway{
		auth:     auth,
		sessions: sessions,
		logger:   logger.With().Str("component", "gateway").Logger(),
	}
}

// Login authenticates and stores the session on success
func (g *Gateway) Login(ctx context.Context, email, password string) Result {
	payload, err := g.auth.Login(ctx, email, password)
	if err != nil {
		g.logger.Debug().Err(err).Str("email", email).Msg("Login rejected")
		return failed(client.Message(err, "Login failed"))
	}
	return g.establish(payload, "Login successful")
}

// Signup registers a normal user and logs it in. Input is validated by the caller.
func (g *Gateway) Signup(ctx context.Context, req client.SignupRequest) Result {
	payload, err := g.auth.Signup(ctx, req)
	if err != nil {
		g.logger.Debug().Err(err).Str("email", req.Email).Msg("Signup rejected")
		return failed(client.Message(err, "Signup failed"))
	}
	return g.establish(payload, "Account created successfully")
}

func (g *Gateway) establish(payload *client.AuthPayload, msg string) Result {
	if payload == nil || payload.Token == "" {
		return failed("The server did not return a session")
	}
	if err := g.sessions.Set(payload.User.Identity(), payload.Token); err != nil {
		g.logger.Error().Err(err).Msg("Failed to store session")
		return failed("Could not save the session: " + err.Error())
	}
	g.logger.Info().
		Str("user_id", payload.User.ID.String()).
		Str("role", string(payload.User.Role)).
		Msg("Session established")
	return ok(msg)
}

// Logout ends the session locally. It always succeeds; a storage failure is logged.
func (g *Gateway) Logout(ctx context.Context) Result {
	if err := g.sessions.Clear(); err != nil {
		g.logger.Warn().Err(err).Msg("Stored session could not be fully removed")
	}
	return ok("Logged out")
}

// ChangePassword updates the password; the session and token stay as they are.
func (g *Gateway) ChangePassword(ctx context.Context, current, next string) Result {
	if err := g.auth.ChangePassword(ctx, current, next); err != nil {
		return failed(client.Message(err, "Failed to change password"))
	}
	return ok("Password changed successfully")
}

// RefreshProfile revalidates the session against the server and merges profile
// changes. A role that differs from the stored one ends the session.
func (g *Gateway) RefreshProfile(ctx context.Context) Result {
	current := g.sessions.Snapshot()
	if !current.Authenticated() {
		return failed("Not logged in")
	}

	user, err := g.auth.Profile(ctx)
	if err != nil {
		return failed(client.Message(err, "Failed to load profile"))
	}

	if user.Role != current.Role() {
		g.logger.Warn().
			Str("stored_role", string(current.Role())).
			Str("server_role", string(user.Role)).
			Msg("Role changed on the server, ending session")
		if err := g.sessions.Clear(); err != nil {
			g.logger.Warn().Err(err).Msg("Stored session could not be fully removed")
		}
		return failed("Your role has changed. Please log in again.")
	}

	if err := g.sessions.UpdateIdentity(session.IdentityUpdate{Name: user.Name, Email: user.Email}); err != nil {
		return failed(err.Error())
	}
	return ok("Session is valid")
}
