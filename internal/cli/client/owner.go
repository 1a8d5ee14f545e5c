package client

import (
	"context"
	"net/http"
)

// StoreOwnerAPI covers /store-owner
type StoreOwnerAPI struct {
	c *Client
}

// Dashboard returns the owner's overview and per-store breakdown
func (o *StoreOwnerAPI) Dashboard(ctx context.Context) (*OwnerDashboard, error) {
	var out OwnerDashboard
	if err := o.c.Do(ctx, http.MethodGet, "/store-owner/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Raters lists users who rated the owner's stores; storeID narrows to one store
func (o *StoreOwnerAPI) Raters(ctx context.Context, storeID string) ([]Rater, error) {
	path := "/store-owner/ratings/users"
	if storeID != "" {
		path += "/" + pathID(storeID)
	}
	var out struct {
		Users []Rater `json:"users"`
	}
	if err := o.c.Do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// StoreStats returns the rating breakdown of one owned store
func (o *StoreOwnerAPI) StoreStats(ctx context.Context, storeID string) (*RatingStats, error) {
	var out struct {
		Stats RatingStats `json:"stats"`
	}
	if err := o.c.Do(ctx, http.MethodGet, "/store-owner/store/"+pathID(storeID)+"/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}
