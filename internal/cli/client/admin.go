package client

import (
	"context"
	"net/http"

	"github.com/storerate/storerate/internal/cli/session"
)

// AdminAPI covers /admin
type AdminAPI struct {
	c *Client
}

// CreateUserRequest creates an account with any role
type CreateUserRequest struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Address  string       `json:"address,omitempty"`
	Role     session.Role `json:"role"`
}

// Dashboard returns platform totals
func (a *AdminAPI) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	var out struct {
		Dashboard AdminDashboard `json:"dashboard"`
	}
	if err := a.c.Do(ctx, http.MethodGet, "/admin/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Dashboard, nil
}

// Users lists accounts
func (a *AdminAPI) Users(ctx context.Context, filter UserFilter) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := a.c.Do(ctx, http.MethodGet, "/admin/users", filter.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// User fetches one account; store owners come back with their stores
func (a *AdminAPI) User(ctx context.Context, id string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := a.c.Do(ctx, http.MethodGet, "/admin/users/"+pathID(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// CreateUser adds an account
func (a *AdminAPI) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := a.c.Do(ctx, http.MethodPost, "/admin/users/create", nil, req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Stores lists every store with its rating totals
func (a *AdminAPI) Stores(ctx context.Context, filter StoreFilter) ([]Store, error) {
	var out struct {
		Stores []Store `json:"stores"`
	}
	if err := a.c.Do(ctx, http.MethodGet, "/admin/stores", filter.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Stores, nil
}

// CreateStore adds a store owned by a store owner
func (a *AdminAPI) CreateStore(ctx context.Context, in StoreInput) (*Store, error) {
	var out struct {
		Store Store `json:"store"`
	}
	if err := a.c.Do(ctx, http.MethodPost, "/admin/stores/create", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Store, nil
}
