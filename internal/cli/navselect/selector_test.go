package navselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/internal/cli/guard"
	"github.com/storerate/storerate/internal/cli/session"
)

func TestOptions_StoreOwner(t *testing.T) {
	opts := Options(guard.New(nil), session.RoleStoreOwner)

	assert.Equal(t, []Option{
		{Label: "Dashboard", Path: "/store-owner/dashboard"},
		{Label: "My Stores", Path: "/store-owner/stores"},
		{Label: "My Ratings", Path: "/store-owner/ratings"},
		{Label: "Change Password", Path: "/change-password"},
		{Label: "Logout", Path: LogoutPath},
	}, opts)
}

func TestResolve_Explicit(t *testing.T) {
	opts := Options(guard.New(nil), session.RoleUser)

	o, err := Resolve(opts, "/my-ratings")
	require.NoError(t, err)
	assert.Equal(t, "My Ratings", o.Label)

	o, err = Resolve(opts, "Browse Stores")
	require.NoError(t, err)
	assert.Equal(t, "/stores", o.Path)

	_, err = Resolve(opts, "/admin/users")
	assert.Error(t, err)
}

func TestResolve_SingleOptionNeedsNoPrompt(t *testing.T) {
	o, err := Resolve([]Option{{Label: "Logout", Path: LogoutPath}}, "")
	require.NoError(t, err)
	assert.Equal(t, LogoutPath, o.Path)
}

func TestPrompt_Empty(t *testing.T) {
	_, err := Prompt(nil)
	assert.Error(t, err)
}
