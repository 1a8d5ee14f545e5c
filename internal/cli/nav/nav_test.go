package nav

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/internal/cli/guard"
	"github.com/storerate/storerate/internal/cli/session"
)

type fixedState session.State

func (f fixedState) Snapshot() session.State { return session.State(f) }

func as(role session.Role) fixedState {
	return fixedState{Identity: &session.Identity{ID: "1", Role: role}, Token: "t"}
}

func TestNavigate_RootFollowsToRoleHome(t *testing.T) {
	n := New(guard.New(nil), as(session.RoleAdmin), zerolog.Nop())

	loc, err := n.Navigate("/")
	require.NoError(t, err)
	assert.Equal(t, "/admin/dashboard", loc.Path)
	assert.Equal(t, guard.Render, loc.Decision.Outcome)
	assert.Equal(t, []string{"/"}, loc.Redirects)
	assert.Equal(t, loc, n.Current())
}

func TestNavigate_AnonymousEndsAtLogin(t *testing.T) {
	n := New(guard.New(nil), fixedState{}, zerolog.Nop())

	loc, err := n.Navigate("/admin/users?role=admin")
	require.NoError(t, err)
	assert.Equal(t, guard.LoginPath, loc.Path)
	assert.Equal(t, guard.Render, loc.Decision.Outcome)
	assert.Nil(t, loc.Query)
}

func TestNavigate_UserOnAdminRouteEndsAtUnauthorized(t *testing.T) {
	n := New(guard.New(nil), as(session.RoleUser), zerolog.Nop())

	loc, err := n.Navigate("/admin/users")
	require.NoError(t, err)
	assert.Equal(t, guard.UnauthorizedPath, loc.Path)
	assert.Equal(t, []string{"/admin/users"}, loc.Redirects)
}

func TestNavigate_KeepsQueryAndParams(t *testing.T) {
	n := New(guard.New(nil), as(session.RoleAdmin), zerolog.Nop())

	loc, err := n.Navigate("/admin/users?name=ada&sortBy=email")
	require.NoError(t, err)
	assert.False(t, loc.Redirected())
	assert.Equal(t, "ada", loc.Query.Get("name"))
	assert.Equal(t, "email", loc.Query.Get("sortBy"))

	loc, err = n.Navigate("/admin/users/01ABC")
	require.NoError(t, err)
	assert.Equal(t, "01ABC", loc.Param("id"))
}

func TestNavigate_RedirectLoop(t *testing.T) {
	routes := []guard.Route{
		{Pattern: "/login", Access: guard.Protected, Roles: []session.Role{session.RoleAdmin}},
		{Pattern: "/unauthorized", Access: guard.Protected, Roles: []session.Role{session.RoleAdmin}},
		{Pattern: "/dashboard", Access: guard.Protected, Roles: []session.Role{session.RoleAdmin}},
	}
	n := New(guard.New(routes), as(session.RoleUser), zerolog.Nop())

	_, err := n.Navigate("/dashboard")
	assert.ErrorIs(t, err, ErrRedirectLoop)
	assert.Equal(t, "/", n.Current().Path)
}

func TestNavigate_NotFound(t *testing.T) {
	n := New(guard.New(nil), fixedState{}, zerolog.Nop())

	loc, err := n.Navigate("/does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, guard.NotFound, loc.Decision.Outcome)
	assert.Equal(t, "/does-not-exist", loc.Path)
}

func TestForceLogin(t *testing.T) {
	n := New(guard.New(nil), fixedState{}, zerolog.Nop())
	_, err := n.Navigate("/unauthorized")
	require.NoError(t, err)

	loc := n.ForceLogin()
	assert.Equal(t, guard.LoginPath, loc.Path)
	assert.Equal(t, guard.Render, loc.Decision.Outcome)
	assert.Equal(t, guard.LoginPath, n.Current().Path)
}
