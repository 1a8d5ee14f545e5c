package devapi

import (
	"time"

	"github.com/storerate/storerate/internal/models"
)

// userResponse is an account as the API returns it
type userResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Address       string       `json:"address,omitempty"`
	Role          string       `json:"role"`
	AverageRating *float64     `json:"average_rating,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Stores        []ownedStore `json:"stores,omitempty"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ownedStore is a store on a store owner's detail page
type ownedStore struct {
	StoreID       string  `json:"store_id"`
	StoreName     string  `json:"store_name"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

type ratingInfo struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

type userRating struct {
	ID      string `json:"id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// storeResponse is a store with its rating totals and, for users, their own rating
type storeResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Address       string      `json:"address"`
	Description   string      `json:"description,omitempty"`
	OwnerID       string      `json:"owner_id"`
	OwnerName     string      `json:"owner_name,omitempty"`
	OwnerEmail    string      `json:"owner_email,omitempty"`
	IsActive      bool        `json:"is_active"`
	AverageRating float64     `json:"average_rating"`
	TotalRatings  int         `json:"total_ratings"`
	RatingInfo    ratingInfo  `json:"rating_info"`
	UserRating    *userRating `json:"user_rating,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// storeRow is one row of the store aggregate query
type storeRow struct {
	ID            string
	Name          string
	Email         string
	Address       string
	Description   string
	OwnerID       string
	IsActive      bool
	CreatedAt     time.Time
	OwnerName     string
	OwnerEmail    string
	AverageRating float64
	TotalRatings  int
}

func (r storeRow) response() storeResponse {
	avg := round2(r.AverageRating)
	return storeResponse{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Address:       r.Address,
		Description:   r.Description,
		OwnerID:       r.OwnerID,
		OwnerName:     r.OwnerName,
		OwnerEmail:    r.OwnerEmail,
		IsActive:      r.IsActive,
		AverageRating: avg,
		TotalRatings:  r.TotalRatings,
		RatingInfo:    ratingInfo{AverageRating: avg, TotalRatings: r.TotalRatings},
		CreatedAt:     r.CreatedAt,
	}
}

type ratingResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	StoreName string    `json:"store_name,omitempty"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newRatingResponse(r models.Rating) ratingResponse {
	resp := ratingResponse{
		ID:        r.ID,
		StoreID:   r.StoreID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.Store != nil {
		resp.StoreName = r.Store.Name
	}
	return resp
}

type ratingStats struct {
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int            `json:"total_ratings"`
	StarBreakdown map[string]int `json:"star_breakdown"`
}

// raterRow is a user who rated one of the caller's stores
type raterRow struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	StoreName string    `json:"store_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
