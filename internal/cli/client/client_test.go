package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/storerate/storerate/internal/cli/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc, token string, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	return New(srv.URL+"/", staticToken(token), opts...)
}

func TestDo_AttachesBearerTokenAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, "abc")

	err := c.Do(context.Background(), http.MethodPost, "/ratings/submit", nil, map[string]int{"rating": 4}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Len(t, gotRequestID, 26)
	assert.Equal(t, "application/json", gotContentType)
}

func TestDo_NoTokenNoAuthorizationHeader(t *testing.T) {
	var sawAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, "")

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/health", nil, nil, nil))
	assert.False(t, sawAuth)
}

func TestDo_ErrorMessageFromBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   string
	}{
		{"message", http.StatusBadRequest, map[string]any{"success": false, "message": "Store not found"}, "Store not found"},
		{"error field", http.StatusConflict, map[string]any{"error": "Email already registered"}, "Email already registered"},
		{"no body", http.StatusInternalServerError, nil, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}, "")

			err := c.Do(context.Background(), http.MethodGet, "/stores/all", nil, nil, nil)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.want, Message(err, "fallback"))
		})
	}
}

func TestDo_SuccessFalseIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "nope"})
	}, "")

	err := c.Do(context.Background(), http.MethodGet, "/stores/all", nil, nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "nope", apiErr.Message)
}

func TestDo_UnauthorizedWithTokenFiresHandlerBeforeReturning(t *testing.T) {
	var calls atomic.Int32
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid token"})
	}, "expired", WithUnauthorizedHandler(func(method, path string) {
		calls.Add(1)
		gotPath = path
	}))

	_, err := c.Admin.Users(context.Background(), UserFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "/admin/users", gotPath)
}

func TestDo_UnauthorizedWithoutTokenLeavesHandlerAlone(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password"})
	}, "", WithUnauthorizedHandler(func(string, string) { calls.Add(1) }))

	_, err := c.Auth.Login(context.Background(), "a@b.co", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", Message(err, ""))
	assert.Zero(t, calls.Load())
}

func TestDo_ForbiddenDoesNotFireHandler(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "message": "Admin access required"})
	}, "tok", WithUnauthorizedHandler(func(string, string) { calls.Add(1) }))

	_, err := c.Admin.Dashboard(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Zero(t, calls.Load())
}

func TestDo_ConcurrentUnauthorizedEachFireHandler(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "expired"})
	}, "tok", WithUnauthorizedHandler(func(string, string) { calls.Add(1) }))

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Stores.List(context.Background(), StoreFilter{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_NetworkErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil)
	err := c.Do(context.Background(), http.MethodGet, "/health", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, Message(err, ""), "Unable to reach the server")
}

func TestDo_UndecodableSuccessIsABadResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":"7"},"token":["not","a","string"]}}`))
	}, "")

	_, err := c.Auth.Login(context.Background(), "a@b.co", "Secret@123")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadResponse)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Unexpected response from server. Please try again later.", Message(err, "Login failed"))
}

func TestAuth_LoginAcceptsNumericIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"tok","user":{"id":7,"name":"Administrator","email":"a@b.co","role":"admin"}}}`))
	}, "")

	out, err := c.Auth.Login(context.Background(), "a@b.co", "Secret@123")
	require.NoError(t, err)
	assert.Equal(t, ID("7"), out.User.ID)
	assert.Equal(t, "7", out.User.Identity().ID)
}

func TestID_Decoding(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`"01HZX"`, "01HZX"},
		{`42`, "42"},
		{`null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestAuth_LoginDecodesEnvelope(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"data": map[string]any{
				"token": "jwt",
				"user":  map[string]any{"id": "7", "name": "Administrator", "email": "a@b.co", "role": "admin"},
			},
		})
	}, "")

	out, err := c.Auth.Login(context.Background(), "a@b.co", "Secret@123")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "a@b.co", "password": "Secret@123"}, body)
	assert.Equal(t, "jwt", out.Token)
	assert.Equal(t, session.Identity{ID: "7", Name: "Administrator", Email: "a@b.co", Role: session.RoleAdmin}, out.User.Identity())
}

func TestStores_ListSendsFilterAndDecodesStringAverages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores/all", r.URL.Path)
		assert.Equal(t, "coffee", r.URL.Query().Get("name"))
		assert.Equal(t, "desc", r.URL.Query().Get("sortOrder"))
		assert.False(t, r.URL.Query().Has("address"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"stores":[
			{"id":"s1","name":"Coffee","rating_info":{"average_rating":"4.50","total_ratings":2},"user_rating":{"id":"r1","rating":5}},
			{"id":"s2","name":"Coffee Two","rating_info":{"average_rating":null,"total_ratings":0}}
		]}}`))
	}, "tok")

	stores, err := c.Stores.List(context.Background(), StoreFilter{Name: "coffee", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, Stars(4.5), stores[0].RatingInfo.AverageRating)
	assert.Equal(t, "4.5", stores[0].RatingInfo.AverageRating.String())
	require.NotNil(t, stores[0].UserRating)
	assert.Equal(t, 5, stores[0].UserRating.Rating)
	assert.Equal(t, Stars(0), stores[1].RatingInfo.AverageRating)
	assert.Nil(t, stores[1].UserRating)
}

func TestStoreOwner_DashboardWithoutNestedKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"overview":{"total_stores":1,"total_ratings_received":3,"overall_average_rating":3.67},
			"stores":[{"id":"s1","name":"Shop","rating_stats":{"average_rating":"3.67","total_ratings":3,"star_breakdown":{"5":1,"3":2}}}]}}`))
	}, "tok")

	d, err := c.StoreOwner.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, d.Overview.TotalRatingsReceived)
	require.Len(t, d.Stores, 1)
	assert.Equal(t, 2, d.Stores[0].RatingStats.StarBreakdown["3"])
}

func TestStars_RejectsGarbage(t *testing.T) {
	var s Stars
	assert.Error(t, json.Unmarshal([]byte(`"four"`), &s))
	assert.NoError(t, json.Unmarshal([]byte(`""`), &s))
	assert.Equal(t, Stars(0), s)
}

func TestRatings_UpdateDropsStoreID(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/ratings/r%2F1", r.URL.EscapedPath())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"rating": map[string]any{"id": "r/1", "rating": 2}}})
	}, "tok")

	r, err := c.Ratings.Update(context.Background(), "r/1", RatingInput{StoreID: "s1", Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Rating)
	assert.NotContains(t, body, "store_id")
}
