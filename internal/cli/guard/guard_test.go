package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/internal/cli/session"
)

func anonymous() session.State { return session.State{} }

func loggedIn(role session.Role) session.State {
	return session.State{
		Identity: &session.Identity{ID: "1", Name: "n", Email: "e@example.com", Role: role},
		Token:    "tok",
	}
}

// concrete returns a navigable path for a pattern
func concrete(pattern string) string {
	if pattern == "/admin/users/:id" {
		return "/admin/users/42"
	}
	return pattern
}

func TestDecide_EmptySessionNeverRendersProtectedRoutes(t *testing.T) {
	g := New(nil)
	for _, r := range g.Routes() {
		if r.Access != Protected && r.Access != RoleHome {
			continue
		}
		d := g.Decide(anonymous(), concrete(r.Pattern))
		assert.Equal(t, RedirectLogin, d.Outcome, r.Pattern)
		assert.Equal(t, LoginPath, d.Target, r.Pattern)
	}
}

func TestDecide_AuthenticatedNeverRendersPublicRoutes(t *testing.T) {
	g := New(nil)
	for _, role := range session.Roles {
		for _, r := range g.Routes() {
			if r.Access != Public {
				continue
			}
			d := g.Decide(loggedIn(role), r.Pattern)
			assert.Equal(t, RedirectHome, d.Outcome, "%s on %s", role, r.Pattern)
			assert.Equal(t, HomePath(role), d.Target)
		}
	}
}

func TestDecide_RoleOutsideNonEmptySetIsUnauthorized(t *testing.T) {
	g := New(nil)
	for _, role := range session.Roles {
		for _, r := range g.Routes() {
			if r.Access != Protected {
				continue
			}
			d := g.Decide(loggedIn(role), concrete(r.Pattern))
			if len(r.Roles) > 0 && !r.Allows(role) {
				assert.Equal(t, RedirectUnauthorized, d.Outcome, "%s on %s", role, r.Pattern)
				assert.Equal(t, UnauthorizedPath, d.Target)
			} else {
				assert.Equal(t, Render, d.Outcome, "%s on %s", role, r.Pattern)
			}
		}
	}
}

func TestDecide_EmptyRoleSetAdmitsEveryRole(t *testing.T) {
	g := New(nil)
	for _, role := range session.Roles {
		d := g.Decide(loggedIn(role), ChangePasswordPath)
		assert.Equal(t, Render, d.Outcome, role)
	}
}

func TestDecide_RootDispatchesToRoleHome(t *testing.T) {
	g := New(nil)

	tests := []struct {
		state  session.State
		want   Outcome
		target string
	}{
		{anonymous(), RedirectLogin, LoginPath},
		{loggedIn(session.RoleAdmin), RedirectHome, "/admin/dashboard"},
		{loggedIn(session.RoleStoreOwner), RedirectHome, "/store-owner/dashboard"},
		{loggedIn(session.RoleUser), RedirectHome, "/dashboard"},
	}
	for _, tt := range tests {
		d := g.Decide(tt.state, "/")
		assert.Equal(t, tt.want, d.Outcome)
		assert.Equal(t, tt.target, d.Target)
	}
}

func TestDecide_UserOnAdminRouteGetsUnauthorizedNotLogin(t *testing.T) {
	d := New(nil).Decide(loggedIn(session.RoleUser), "/admin/users")
	assert.Equal(t, RedirectUnauthorized, d.Outcome)
	assert.Equal(t, "/unauthorized", d.Target)
}

func TestDecide_Loading(t *testing.T) {
	g := New(nil)
	loading := session.State{Loading: true}

	assert.Equal(t, Placeholder, g.Decide(loading, "/admin/users").Outcome)
	assert.Equal(t, Placeholder, g.Decide(loading, "/login").Outcome)
	assert.Equal(t, Placeholder, g.Decide(loading, "/").Outcome)
	assert.Equal(t, NotFound, g.Decide(loading, "/nowhere").Outcome)
}

func TestDecide_UnknownPathsAreNotFoundInEveryState(t *testing.T) {
	g := New(nil)
	states := []session.State{anonymous(), loggedIn(session.RoleAdmin), loggedIn(session.RoleUser)}
	for _, st := range states {
		for _, p := range []string{"/nope", "/admin", "/admin/users/1/edit", "/admin/stores/7"} {
			d := g.Decide(st, p)
			assert.Equal(t, NotFound, d.Outcome, p)
			assert.Empty(t, d.Target)
			assert.Nil(t, d.Route)
		}
	}
}

func TestDecide_UnauthorizedScreenAlwaysRenders(t *testing.T) {
	g := New(nil)
	assert.Equal(t, Render, g.Decide(anonymous(), UnauthorizedPath).Outcome)
	assert.Equal(t, Render, g.Decide(loggedIn(session.RoleUser), UnauthorizedPath).Outcome)
}

func TestLookup_StaticSegmentsBeatParams(t *testing.T) {
	g := New(nil)

	r, params, ok := g.Lookup("/admin/users/create")
	require.True(t, ok)
	assert.Equal(t, "/admin/users/create", r.Pattern)
	assert.Empty(t, params)

	r, params, ok = g.Lookup("/admin/users/01HZX")
	require.True(t, ok)
	assert.Equal(t, "/admin/users/:id", r.Pattern)
	assert.Equal(t, map[string]string{"id": "01HZX"}, params)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                         "/",
		"/":                        "/",
		"/stores/":                 "/stores",
		"stores":                   "/stores",
		"/stores?name=coffee":      "/stores",
		"/admin/users#top":         "/admin/users",
		"/admin/users//":           "/admin/users",
		" /my-ratings ":            "/my-ratings",
		"/?redirect=/admin/stores": "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestNavLinks(t *testing.T) {
	assert.Equal(t, []string{"/admin/dashboard", "/admin/users", "/admin/stores", "/change-password"},
		NavLinks(session.RoleAdmin))
	assert.Equal(t, []string{"/change-password"}, NavLinks(""))

	g := New(nil)
	for _, role := range session.Roles {
		for _, link := range NavLinks(role) {
			assert.Equal(t, Render, g.Decide(loggedIn(role), link).Outcome, "%s menu entry %s", role, link)
		}
	}
}
