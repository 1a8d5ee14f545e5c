package client

import (
	"context"
	"net/http"
)

// StoresAPI covers /stores
type StoresAPI struct {
	c *Client
}

// StoreInput creates or updates a store
type StoreInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
}

// List returns every active store, with the caller's own rating when present
func (s *StoresAPI) List(ctx context.Context, filter StoreFilter) ([]Store, error) {
	var out struct {
		Stores []Store `json:"stores"`
	}
	if err := s.c.Do(ctx, http.MethodGet, "/stores/all", filter.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Stores, nil
}

// Get fetches a single store
func (s *StoresAPI) Get(ctx context.Context, id string) (*Store, error) {
	var out struct {
		Store Store `json:"store"`
	}
	if err := s.c.Do(ctx, http.MethodGet, "/stores/"+pathID(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Store, nil
}

// Mine lists the stores owned by the calling store owner
func (s *StoresAPI) Mine(ctx context.Context) ([]Store, error) {
	var out struct {
		Stores []Store `json:"stores"`
	}
	if err := s.c.Do(ctx, http.MethodGet, "/stores/my-stores", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Stores, nil
}

// Update changes a store's details
func (s *StoresAPI) Update(ctx context.Context, id string, in StoreInput) (*Store, error) {
	var out struct {
		Store Store `json:"store"`
	}
	if err := s.c.Do(ctx, http.MethodPut, "/stores/"+pathID(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Store, nil
}

// Create adds a store
func (s *StoresAPI) Create(ctx context.Context, in StoreInput) (*Store, error) {
	var out struct {
		Store Store `json:"store"`
	}
	if err := s.c.Do(ctx, http.MethodPost, "/stores/create", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Store, nil
}

// Delete removes a store
func (s *StoresAPI) Delete(ctx context.Context, id string) error {
	return s.c.Do(ctx, http.MethodDelete, "/stores/"+pathID(id), nil, nil, nil)
}
