package client

import (
	"context"
	"net/http"
)

// RatingsAPI covers /ratings
type RatingsAPI struct {
	c *Client
}

// RatingInput submits or updates a rating. StoreID is ignored on update.
type RatingInput struct {
	StoreID string `json:"store_id,omitempty"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Submit rates a store for the first time
func (r *RatingsAPI) Submit(ctx context.Context, in RatingInput) (*Rating, error) {
	var out struct {
		Rating Rating `json:"rating"`
	}
	if err := r.c.Do(ctx, http.MethodPost, "/ratings/submit", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Rating, nil
}

// Update changes an existing rating
func (r *RatingsAPI) Update(ctx context.Context, id string, in RatingInput) (*Rating, error) {
	in.StoreID = ""
	var out struct {
		Rating Rating `json:"rating"`
	}
	if err := r.c.Do(ctx, http.MethodPut, "/ratings/"+pathID(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Rating, nil
}

// Mine lists the caller's ratings
func (r *RatingsAPI) Mine(ctx context.Context) ([]Rating, error) {
	var out struct {
		Ratings []Rating `json:"ratings"`
	}
	if err := r.c.Do(ctx, http.MethodGet, "/ratings/my-ratings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Ratings, nil
}

// Delete removes one of the caller's ratings
func (r *RatingsAPI) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodDelete, "/ratings/"+pathID(id), nil, nil, nil)
}

// ByStore lists every rating of a store
func (r *RatingsAPI) ByStore(ctx context.Context, storeID string) ([]Rating, error) {
	var out struct {
		Ratings []Rating `json:"ratings"`
	}
	if err := r.c.Do(ctx, http.MethodGet, "/ratings/store/"+pathID(storeID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Ratings, nil
}

// Get fetches a single rating
func (r *RatingsAPI) Get(ctx context.Context, id string) (*Rating, error) {
	var out struct {
		Rating Rating `json:"rating"`
	}
	if err := r.c.Do(ctx, http.MethodGet, "/ratings/"+pathID(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Rating, nil
}
