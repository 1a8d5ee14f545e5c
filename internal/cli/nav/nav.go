// Package nav tracks where the client currently is and follows the guard's redirects
// until a screen can be shown.
package nav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storerate/storerate/internal/cli/guard"
	"github.com/storerate/storerate/internal/cli/session"
)

const maxRedirects = 8

// ErrRedirectLoop is returned when redirects do not settle
var ErrRedirectLoop = errors.New("too many redirects")

// StateSource supplies the session state each navigation is evaluated against
type StateSource interface {
	Snapshot() session.State
}

// Location is where a navigation ended up
type Location struct {
	Requested string // raw path as asked for
	Path      string // final normalised path
	Query     url.Values
	Decision  guard.Decision
	Redirects []string // intermediate paths, in order
}

// Redirected reports whether the navigation ended somewhere other than requested
func (l Location) Redirected() bool {
	return len(l.Redirects) > 0
}

// Param returns a route parameter such as "id"
func (l Location) Param(name string) string {
	return l.Decision.Params[name]
}

// Navigator follows guard decisions. Safe for concurrent use; the last navigation wins.
type Navigator struct {
	mu       sync.Mutex
	guard    *guard.Guard
	sessions StateSource
	logger   zerolog.Logger
	current  Location
}

// New creates a navigator positioned at the root path
func New(g *guard.Guard, sessions StateSource, logger zerolog.Logger) *Navigator {
	return &Navigator{
		guard:    g,
		sessions: sessions,
		logger:   logger.With().Str("component", "nav").Logger(),
		current:  Location{Requested: guard.RootPath, Path: guard.RootPath},
	}
}

// Navigate evaluates path against the current session and follows redirects. The
// query string survives only when the requested screen is rendered directly.
func (n *Navigator) Navigate(path string) (Location, error) {
	loc, err := n.resolve(path)
	if err != nil {
		return Location{}, err
	}

	n.mu.Lock()
	n.current = loc
	n.mu.Unlock()

	n.logger.Debug().
		Str("requested", path).
		Str("path", loc.Path).
		Str("outcome", loc.Decision.Outcome.String()).
		Strs("redirects", loc.Redirects).
		Msg("Navigated")
	return loc, nil
}

func (n *Navigator) resolve(path string) (Location, error) {
	st := n.sessions.Snapshot()
	loc := Location{Requested: path, Query: parseQuery(path)}

	p := path
	for i := 0; ; i++ {
		d := n.guard.Decide(st, p)
		if !d.Outcome.IsRedirect() {
			loc.Path = d.Path
			loc.Decision = d
			break
		}
		if i >= maxRedirects {
			return Location{}, fmt.Errorf("%w: %s", ErrRedirectLoop, strings.Join(append(loc.Redirects, d.Path), " -> "))
		}
		loc.Redirects = append(loc.Redirects, d.Path)
		p = d.Target
	}

	if loc.Redirected() {
		loc.Query = nil
	}
	return loc, nil
}

// ForceLogin moves to the login screen regardless of where the client was
func (n *Navigator) ForceLogin() Location {
	d := n.guard.Decide(n.sessions.Snapshot(), guard.LoginPath)
	loc := Location{Requested: guard.LoginPath, Path: guard.LoginPath, Decision: d}

	n.mu.Lock()
	prev := n.current.Path
	n.current = loc
	n.mu.Unlock()

	n.logger.Info().Str("from", prev).Msg("Session expired, returning to login")
	return loc
}

// Current returns the last location
func (n *Navigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func parseQuery(path string) url.Values {
	i := strings.IndexByte(path, '?')
	if i < 0 {
		return nil
	}
	raw := path[i+1:]
	if j := strings.IndexByte(raw, '#'); j >= 0 {
		raw = raw[:j]
	}
	q, err := url.ParseQuery(raw)
	if err != nil || len(q) == 0 {
		return nil
	}
	return q
}
