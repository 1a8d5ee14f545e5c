// Package guard decides, for each navigation, whether the current session may see the
// requested screen or where it should be sent instead.
package guard

import (
	"fmt"

	"github.com/storerate/storerate/internal/cli/session"
)

// Outcome is the terminal result of one navigation
type Outcome int

const (
	// Placeholder is shown while the session is still being restored.
	Placeholder Outcome = iota
	Render
	RedirectLogin
	RedirectHome
	RedirectUnauthorized
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Placeholder:
		return "placeholder"
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	case NotFound:
		return "not-found"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// IsRedirect reports whether the outcome sends the visitor elsewhere
func (o Outcome) IsRedirect() bool {
	return o == RedirectLogin || o == RedirectHome || o == RedirectUnauthorized
}

// Decision is what the guard concluded for a path
type Decision struct {
	Outcome Outcome
	Path    string            // normalised requested path
	Target  string            // redirect destination, set for redirects only
	Route   *Route            // matched route; nil for NotFound
	Params  map[string]string // pattern params such as ":id"
}

// Guard evaluates the Route Authorization table. It keeps no memory between calls.
type Guard struct {
	routes []Route
}

// New builds a guard over routes; nil uses DefaultRoutes.
func New(routes []Route) *Guard {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &Guard{routes: routes}
}

// Routes returns the route table
func (g *Guard) Routes() []Route {
	out := make([]Route, len(g.routes))
	copy(out, g.routes)
	return out
}

// Lookup finds the most specific route for path
func (g *Guard) Lookup(path string) (*Route, map[string]string, bool) {
	path = Normalize(path)

	var (
		best       *Route
		bestParams map[string]string
		bestStatic = -1
	)
	for i := range g.routes {
		params, static, ok := match(g.routes[i].Pattern, path)
		if ok && static > bestStatic {
			best, bestParams, bestStatic = &g.routes[i], params, static
		}
	}
	return best, bestParams, best != nil
}

// Decide evaluates one navigation to path for the given session state
func (g *Guard) Decide(st session.State, path string) Decision {
	path = Normalize(path)
	route, params, ok := g.Lookup(path)
	if !ok {
		return Decision{Outcome: NotFound, Path: path}
	}

	d := Decision{Path: path, Route: route, Params: params}

	if route.Access == Open {
		d.Outcome = Render
		return d
	}

	if st.Loading {
		d.Outcome = Placeholder
		return d
	}

	if !st.Authenticated() {
		if route.Access == Public {
			d.Outcome = Render
			return d
		}
		return redirect(d, RedirectLogin, LoginPath)
	}

	role := st.Role()
	switch route.Access {
	case Public, RoleHome:
		return redirect(d, RedirectHome, HomePath(role))
	}

	if !route.Allows(role) {
		return redirect(d, RedirectUnauthorized, UnauthorizedPath)
	}

	d.Outcome = Render
	return d
}

func redirect(d Decision, o Outcome, target string) Decision {
	d.Outcome = o
	d.Target = target
	return d
}
