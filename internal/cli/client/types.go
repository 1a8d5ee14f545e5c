package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/storerate/storerate/internal/cli/session"
)

// Stars is an average rating. The API sends numeric columns either as numbers or as
// strings ("4.50"); both decode, as does null.
type Stars float64

func (s *Stars) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = 0
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		if str == "" {
			*s = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid rating %q: %w", str, err)
		}
		*s = Stars(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = Stars(f)
	return nil
}

// String formats with one decimal, e.g. "4.5"
func (s Stars) String() string {
	return strconv.FormatFloat(float64(s), 'f', 1, 64)
}

// ID is an opaque record id. The API may send it as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// User is a platform account as returned by the API
type User struct {
	ID            ID           `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Address       string       `json:"address,omitempty"`
	Role          session.Role `json:"role"`
	AverageRating *Stars       `json:"average_rating,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Stores        []OwnedStore `json:"stores,omitempty"`
}

// Identity returns the session identity for u
func (u User) Identity() session.Identity {
	return session.Identity{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role}
}

// OwnedStore is a store listed on a store owner's detail page
type OwnedStore struct {
	StoreID       ID     `json:"store_id"`
	StoreName     string `json:"store_name"`
	AverageRating Stars  `json:"average_rating"`
	TotalRatings  int    `json:"total_ratings"`
}

// RatingInfo summarises a store's ratings
type RatingInfo struct {
	AverageRating Stars `json:"average_rating"`
	TotalRatings  int   `json:"total_ratings"`
}

// UserRating is the current user's own rating of a store
type UserRating struct {
	ID      ID     `json:"id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Store is a rated store
type Store struct {
	ID            ID          `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email,omitempty"`
	Address       string      `json:"address"`
	Description   string      `json:"description,omitempty"`
	OwnerID       ID          `json:"owner_id,omitempty"`
	OwnerName     string      `json:"owner_name,omitempty"`
	OwnerEmail    string      `json:"owner_email,omitempty"`
	IsActive      bool        `json:"is_active"`
	AverageRating Stars       `json:"average_rating"`
	TotalRatings  int         `json:"total_ratings"`
	RatingInfo    RatingInfo  `json:"rating_info"`
	UserRating    *UserRating `json:"user_rating,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Rating is one user's rating of one store
type Rating struct {
	ID        ID        `json:"id"`
	StoreID   ID        `json:"store_id"`
	StoreName string    `json:"store_name,omitempty"`
	UserID    ID        `json:"user_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminDashboard holds platform totals
type AdminDashboard struct {
	TotalUsers            int            `json:"total_users"`
	TotalStores           int            `json:"total_stores"`
	TotalRatings          int            `json:"total_ratings"`
	AveragePlatformRating Stars          `json:"average_platform_rating"`
	RecentActivity        RecentActivity `json:"recent_activity"`
}

// RecentActivity counts this month's additions
type RecentActivity struct {
	UsersThisMonth   int `json:"users_this_month"`
	StoresThisMonth  int `json:"stores_this_month"`
	RatingsThisMonth int `json:"ratings_this_month"`
}

// OwnerDashboard is a store owner's overview
type OwnerDashboard struct {
	Overview OwnerOverview `json:"overview"`
	Stores   []OwnerStore  `json:"stores"`
}

// OwnerOverview totals a store owner's stores
type OwnerOverview struct {
	TotalStores          int   `json:"total_stores"`
	TotalRatingsReceived int   `json:"total_ratings_received"`
	OverallAverageRating Stars `json:"overall_average_rating"`
}

// OwnerStore is one of the owner's stores with its rating breakdown
type OwnerStore struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	RatingStats RatingStats `json:"rating_stats"`
}

// RatingStats breaks a store's ratings down by star count ("1".."5")
type RatingStats struct {
	AverageRating Stars          `json:"average_rating"`
	TotalRatings  int            `json:"total_ratings"`
	StarBreakdown map[string]int `json:"star_breakdown,omitempty"`
}

// Rater is a user who rated one of the owner's stores
type Rater struct {
	UserID    ID        `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	StoreName string    `json:"store_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreFilter narrows store listings
type StoreFilter struct {
	Name      string
	Address   string
	SortBy    string
	SortOrder string
}

// Values encodes the non-empty fields as query parameters
func (f StoreFilter) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "name", f.Name)
	setNonEmpty(v, "address", f.Address)
	setNonEmpty(v, "sortBy", f.SortBy)
	setNonEmpty(v, "sortOrder", f.SortOrder)
	return v
}

// StoreFilterFrom reads a filter from query parameters
func StoreFilterFrom(q url.Values) StoreFilter {
	return StoreFilter{
		Name:      q.Get("name"),
		Address:   q.Get("address"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

// UserFilter narrows user listings
type UserFilter struct {
	Name      string
	Email     string
	Address   string
	Role      string
	SortBy    string
	SortOrder string
}

// Values encodes the non-empty fields as query parameters
func (f UserFilter) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "name", f.Name)
	setNonEmpty(v, "email", f.Email)
	setNonEmpty(v, "address", f.Address)
	setNonEmpty(v, "role", f.Role)
	setNonEmpty(v, "sortBy", f.SortBy)
	setNonEmpty(v, "sortOrder", f.SortOrder)
	return v
}

// UserFilterFrom reads a filter from query parameters
func UserFilterFrom(q url.Values) UserFilter {
	return UserFilter{
		Name:      q.Get("name"),
		Email:     q.Get("email"),
		Address:   q.Get("address"),
		Role:      q.Get("role"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
