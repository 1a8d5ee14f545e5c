package devapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storerate/storerate/internal/models"
)

// SubmitRatingRequest rates a store for the first time
type SubmitRatingRequest struct {
	StoreID string `json:"store_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

// UpdateRatingRequest changes an existing rating
type UpdateRatingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

func (s *Server) submitRating(c *gin.Context) {
	var req SubmitRatingRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := caller(c).UserID

	var store models.Store
	if err := s.db.Where("id = ? AND is_active = ?", req.StoreID, true).First(&store).Error; err != nil {
		fail(c, http.StatusNotFound, "Store not found")
		return
	}

	var count int64
	if err := s.db.Model(&models.Rating{}).Where("store_id = ? AND user_id = ?", store.ID, userID).Count(&count).Error; err != nil {
		s.internalError(c, err, "Failed to check existing rating")
		return
	}
	if count > 0 {
		fail(c, http.StatusConflict, "You have already rated this store. Use update instead.")
		return
	}

	rating := models.Rating{StoreID: store.ID, UserID: userID, Rating: req.Rating, Comment: req.Comment}
	if err := s.db.Create(&rating).Error; err != nil {
		s.internalError(c, err, "Failed to create rating")
		return
	}
	rating.Store = &store

	s.metrics.rating("submit")
	ok(c, http.StatusCreated, "Rating submitted successfully", gin.H{"rating": newRatingResponse(rating)})
}

func (s *Server) updateRating(c *gin.Context) {
	var req UpdateRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	var rating models.Rating
	err := s.db.Preload("Store").Where("id = ? AND user_id = ?", c.Param("id"), caller(c).UserID).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "Rating not found")
		return
	}
	if err != nil {
		s.internalError(c, err, "Failed to load rating")
		return
	}

	rating.Rating = req.Rating
	rating.Comment = req.Comment
	if err := s.db.Model(&rating).Select("rating", "comment").Updates(&rating).Error; err != nil {
		s.internalError(c, err, "Failed to update rating")
		return
	}

	s.metrics.rating("update")
	ok(c, http.StatusOK, "Rating updated successfully", gin.H{"rating": newRatingResponse(rating)})
}

func (s *Server) myRatings(c *gin.Context) {
	var ratings []models.Rating
	if err := s.db.Preload("Store").Where("user_id = ?", caller(c).UserID).Order("updated_at DESC").Find(&ratings).Error; err != nil {
		s.internalError(c, err, "Failed to list ratings")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"ratings": ratingResponses(ratings)})
}

func (s *Server) storeRatings(c *gin.Context) {
	var ratings []models.Rating
	if err := s.db.Preload("Store").Where("store_id = ?", c.Param("id")).Order("created_at DESC").Find(&ratings).Error; err != nil {
		s.internalError(c, err, "Failed to list ratings")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"ratings": ratingResponses(ratings)})
}

// getRating shows a rating to its author, the owner of the rated store, or an admin
func (s *Server) getRating(c *gin.Context) {
	var rating models.Rating
	if err := s.db.Preload("Store").Where("id = ?", c.Param("id")).First(&rating).Error; err != nil {
		fail(c, http.StatusNotFound, "Rating not found")
		return
	}

	sd := caller(c)
	allowed := sd.Role == models.RoleAdmin ||
		rating.UserID == sd.UserID ||
		(rating.Store != nil && rating.Store.OwnerID == sd.UserID)
	if !allowed {
		fail(c, http.StatusNotFound, "Rating not found")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"rating": newRatingResponse(rating)})
}

func (s *Server) deleteRating(c *gin.Context) {
	sd := caller(c)
	q := s.db.Where("id = ?", c.Param("id"))
	if sd.Role != models.RoleAdmin {
		q = q.Where("user_id = ?", sd.UserID)
	}

	res := q.Delete(&models.Rating{})
	if res.Error != nil {
		s.internalError(c, res.Error, "Failed to delete rating")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Rating not found")
		return
	}

	s.metrics.rating("delete")
	ok(c, http.StatusOK, "Rating deleted successfully", nil)
}

func ratingResponses(ratings []models.Rating) []ratingResponse {
	out := make([]ratingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, newRatingResponse(r))
	}
	return out
}
