package views

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/guard"
	"github.com/storerate/storerate/internal/cli/nav"
	"github.com/storerate/storerate/internal/cli/session"
)

type state session.State

func (s state) Snapshot() session.State { return session.State(s) }

func as(role session.Role) state {
	return state{Identity: &session.Identity{ID: "u1", Name: "Someone With A Long Name", Role: role}, Token: "tok"}
}

type recorder struct {
	mu   sync.Mutex
	uris []string
}

func (r *recorder) add(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uris = append(r.uris, uri)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.uris...)
}

// fakeAPI serves canned JSON bodies keyed by path
func fakeAPI(t *testing.T, bodies map[string]string, seen *recorder) *client.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.add(r.URL.RequestURI())
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return client.New(srv.URL, nil, client.WithHTTPClient(srv.Client()))
}

func render(t *testing.T, api *client.Client, st state, path string) (string, error) {
	t.Helper()
	loc, err := nav.New(guard.New(nil), st, zerolog.Nop()).Navigate(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = New(api, &buf, zerolog.Nop()).Render(context.Background(), session.State(st), loc)
	return buf.String(), err
}

func TestRender_NotFoundAndPlaceholder(t *testing.T) {
	out, err := render(t, nil, state{}, "/no-such-page")
	require.NoError(t, err)
	assert.Equal(t, "404 Page not found\n", out)

	out, err = render(t, nil, state{Loading: true}, "/admin/users")
	require.NoError(t, err)
	assert.Equal(t, "Loading...\n", out)
}

func TestRender_UnauthorizedShowsRole(t *testing.T) {
	out, err := render(t, nil, as(session.RoleUser), "/admin/stores")
	require.NoError(t, err)
	assert.Contains(t, out, "Access Denied")
	assert.Contains(t, out, "Logged in as: user")
}

func TestRender_LoginScreenForAnonymousVisitor(t *testing.T) {
	out, err := render(t, nil, state{}, "/my-ratings")
	require.NoError(t, err)
	assert.Contains(t, out, "Sign in to your account")
	assert.NotContains(t, out, "Welcome")
}

func TestRender_BrowseStoresPassesFilters(t *testing.T) {
	seen := &recorder{}
	api := fakeAPI(t, map[string]string{
		"/stores/all": `{"success":true,"data":{"stores":[{"id":"s1","name":"Corner Coffee","address":"1 Main St",
			"rating_info":{"average_rating":"4.50","total_ratings":2},"user_rating":{"id":"r1","rating":4}}]}}`,
	}, seen)

	out, err := render(t, api, as(session.RoleUser), "/stores?name=corner&sortBy=name")
	require.NoError(t, err)

	assert.Equal(t, []string{"/stores/all?name=corner&sortBy=name"}, seen.all())
	assert.Contains(t, out, "Browse Stores")
	assert.Contains(t, out, "Corner Coffee")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "★★★★☆")
	assert.Contains(t, out, "Welcome, Someone With A Long Name (USER)")
}

func TestRender_OwnerDashboardLoadsBothResources(t *testing.T) {
	api := fakeAPI(t, map[string]string{
		"/store-owner/dashboard": `{"success":true,"data":{"overview":{"total_stores":1,"total_ratings_received":3,"overall_average_rating":"3.67"},
			"stores":[{"id":"s1","name":"Book Nook","address":"2 High St","rating_stats":{"average_rating":3.67,"total_ratings":3,"star_breakdown":{"5":1,"3":2,"1":0}}}]}}`,
		"/store-owner/ratings/users": `{"success":true,"data":{"users":[{"user_id":"u9","name":"Reader","email":"r@example.com","store_name":"Book Nook","rating":5,"created_at":"2026-01-02T00:00:00Z"}]}}`,
	}, nil)

	out, err := render(t, api, as(session.RoleStoreOwner), "/")
	require.NoError(t, err)
	assert.Contains(t, out, "Store Owner Dashboard")
	assert.Contains(t, out, "Book Nook")
	assert.Contains(t, out, "5★:1 3★:2")
	assert.Contains(t, out, "Reader")
	assert.Contains(t, out, "2026-01-02")
}

func TestRender_AdminUserDetailsForStoreOwner(t *testing.T) {
	api := fakeAPI(t, map[string]string{
		"/admin/users/o1": `{"success":true,"data":{"user":{"id":"o1","name":"Owner Of Many Stores Here","email":"o@example.com","role":"store_owner",
			"stores":[{"store_id":"s1","store_name":"Book Nook","average_rating":"0","total_ratings":0}]}}}`,
	}, nil)

	out, err := render(t, api, as(session.RoleAdmin), "/admin/users/o1")
	require.NoError(t, err)
	assert.Contains(t, out, "User Details")
	assert.Contains(t, out, "STORE OWNER")
	assert.Contains(t, out, "Owned Stores")
	assert.Contains(t, out, "Book Nook")
}

func TestRender_ReturnsUnauthorizedErrors(t *testing.T) {
	api := fakeAPI(t, map[string]string{}, nil)

	_, err := render(t, api, as(session.RoleUser), "/my-ratings")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestBreakdown(t *testing.T) {
	assert.Equal(t, "-", breakdown(nil))
	assert.Equal(t, "-", breakdown(map[string]int{"4": 0}))
	assert.Equal(t, "4★:1 2★:3", breakdown(map[string]int{"2": 3, "4": 1}))
}
