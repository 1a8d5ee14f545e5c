package devapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ownerOverview struct {
	TotalStores          int     `json:"total_stores"`
	TotalRatingsReceived int     `json:"total_ratings_received"`
	OverallAverageRating float64 `json:"overall_average_rating"`
}

type ownerStore struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	RatingStats ratingStats `json:"rating_stats"`
}

// starBreakdowns counts ratings per star value for each store
func (s *Server) starBreakdowns(storeIDs []string) (map[string]map[string]int, error) {
	out := make(map[string]map[string]int, len(storeIDs))
	for _, id := range storeIDs {
		out[id] = map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	}
	if len(storeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		StoreID string
		Rating  int
		N       int
	}
	err := s.db.Table("ratings").
		Select("store_id, rating, COUNT(*) AS n").
		Where("store_id IN ?", storeIDs).
		Group("store_id, rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.StoreID][strconv.Itoa(r.Rating)] = r.N
	}
	return out, nil
}

func (s *Server) ownerDashboard(c *gin.Context) {
	var rows []storeRow
	if err := s.storeQuery().Where("stores.owner_id = ?", caller(c).UserID).Order("stores.name ASC").Scan(&rows).Error; err != nil {
		s.internalError(c, err, "Failed to load stores")
		return
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	breakdowns, err := s.starBreakdowns(ids)
	if err != nil {
		s.internalError(c, err, "Failed to load rating breakdown")
		return
	}

	overview := ownerOverview{TotalStores: len(rows)}
	stores := make([]ownerStore, 0, len(rows))
	var sum float64
	for _, r := range rows {
		stores = append(stores, ownerStore{
			ID:      r.ID,
			Name:    r.Name,
			Address: r.Address,
			RatingStats: ratingStats{
				AverageRating: round2(r.AverageRating),
				TotalRatings:  r.TotalRatings,
				StarBreakdown: breakdowns[r.ID],
			},
		})
		overview.TotalRatingsReceived += r.TotalRatings
		sum += r.AverageRating * float64(r.TotalRatings)
	}
	if overview.TotalRatingsReceived > 0 {
		overview.OverallAverageRating = round2(sum / float64(overview.TotalRatingsReceived))
	}

	ok(c, http.StatusOK, "", gin.H{"overview": overview, "stores": stores})
}

// ownerRaters lists users who rated the caller's stores, newest first. With :id it
// is narrowed to one owned store.
func (s *Server) ownerRaters(c *gin.Context) {
	q := s.db.Table("ratings").
		Select(`ratings.user_id, users.name, users.email, stores.name AS store_name,
			ratings.rating, COALESCE(ratings.comment, '') AS comment, ratings.created_at`).
		Joins("JOIN stores ON stores.id = ratings.store_id").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("stores.owner_id = ?", caller(c).UserID)

	if id := c.Param("id"); id != "" {
		if !s.ownsStore(c, id) {
			return
		}
		q = q.Where("stores.id = ?", id)
	}

	var raters []raterRow
	if err := q.Order("ratings.created_at DESC").Scan(&raters).Error; err != nil {
		s.internalError(c, err, "Failed to list raters")
		return
	}
	if raters == nil {
		raters = []raterRow{}
	}
	ok(c, http.StatusOK, "", gin.H{"users": raters})
}

func (s *Server) ownerStoreStats(c *gin.Context) {
	id := c.Param("id")
	if !s.ownsStore(c, id) {
		return
	}

	row, err := s.loadStore(id)
	if err != nil {
		s.internalError(c, err, "Failed to load store")
		return
	}
	breakdowns, err := s.starBreakdowns([]string{id})
	if err != nil {
		s.internalError(c, err, "Failed to load rating breakdown")
		return
	}

	ok(c, http.StatusOK, "", gin.H{"stats": ratingStats{
		AverageRating: round2(row.AverageRating),
		TotalRatings:  row.TotalRatings,
		StarBreakdown: breakdowns[id],
	}})
}

// ownsStore answers 404 unless the caller owns the store
func (s *Server) ownsStore(c *gin.Context, storeID string) bool {
	var count int64
	err := s.db.Table("stores").Where("id = ? AND owner_id = ?", storeID, caller(c).UserID).Count(&count).Error
	if err != nil {
		s.internalError(c, err, "Failed to check store ownership")
		return false
	}
	if count == 0 {
		fail(c, http.StatusNotFound, "Store not found")
		return false
	}
	return true
}
