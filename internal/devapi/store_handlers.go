package devapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storerate/storerate/internal/models"
)

// CreateStoreRequest adds a store for a store owner
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Address     string `json:"address" binding:"required,max=400"`
	Description string `json:"description" binding:"max=1000"`
	OwnerID     string `json:"owner_id" binding:"required"`
}

// UpdateStoreRequest changes the given fields; empty fields are left alone
type UpdateStoreRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address" binding:"omitempty,max=400"`
	Description string `json:"description" binding:"max=1000"`
	OwnerID     string `json:"owner_id"`
}

var storeSortColumns = map[string]string{
	"name":       "stores.name",
	"email":      "stores.email",
	"address":    "stores.address",
	"rating":     "average_rating",
	"created_at": "stores.created_at",
}

// sortClause builds an ORDER BY from whitelisted columns
func sortClause(columns map[string]string, sortBy, sortOrder, fallback string) string {
	col, found := columns[sortBy]
	if !found {
		col = fallback
	}
	dir := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

// storeQuery selects stores with their owner and rating aggregates
func (s *Server) storeQuery() *gorm.DB {
	return s.db.Table("stores").
		Select(`stores.id, stores.name, stores.email, stores.address,
			COALESCE(stores.description, '') AS description, stores.owner_id, stores.is_active, stores.created_at,
			COALESCE(users.name, '') AS owner_name, COALESCE(users.email, '') AS owner_email,
			COALESCE(AVG(ratings.rating), 0) AS average_rating, COUNT(ratings.id) AS total_ratings`).
		Joins("LEFT JOIN users ON users.id = stores.owner_id").
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Group("stores.id")
}

// filteredStores applies the name/address filters and sort from the query string
func (s *Server) filteredStores(c *gin.Context, q *gorm.DB) ([]storeRow, error) {
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		q = q.Where("LOWER(stores.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if address := strings.TrimSpace(c.Query("address")); address != "" {
		q = q.Where("LOWER(stores.address) LIKE ?", "%"+strings.ToLower(address)+"%")
	}
	q = q.Order(sortClause(storeSortColumns, c.Query("sortBy"), c.Query("sortOrder"), "stores.name"))

	var rows []storeRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// loadStore fetches one store row, or gorm.ErrRecordNotFound
func (s *Server) loadStore(id string) (storeRow, error) {
	var rows []storeRow
	if err := s.storeQuery().Where("stores.id = ?", id).Scan(&rows).Error; err != nil {
		return storeRow{}, err
	}
	if len(rows) == 0 {
		return storeRow{}, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

// withUserRatings converts rows and attaches the caller's own rating of each store
func (s *Server) withUserRatings(rows []storeRow, userID string) ([]storeResponse, error) {
	out := make([]storeResponse, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.response())
		ids = append(ids, r.ID)
	}
	if userID == "" || len(ids) == 0 {
		return out, nil
	}

	var mine []models.Rating
	if err := s.db.Where("user_id = ? AND store_id IN ?", userID, ids).Find(&mine).Error; err != nil {
		return nil, err
	}
	byStore := make(map[string]models.Rating, len(mine))
	for _, r := range mine {
		byStore[r.StoreID] = r
	}
	for i := range out {
		if r, found := byStore[out[i].ID]; found {
			out[i].UserRating = &userRating{ID: r.ID, Rating: r.Rating, Comment: r.Comment}
		}
	}
	return out, nil
}

// ratingUserID is the caller's id when their own ratings should be attached
func ratingUserID(c *gin.Context) string {
	if sd := caller(c); sd.Role == models.RoleUser {
		return sd.UserID
	}
	return ""
}

func (s *Server) listStores(c *gin.Context) {
	rows, err := s.filteredStores(c, s.storeQuery().Where("stores.is_active = ?", true))
	if err != nil {
		s.internalError(c, err, "Failed to list stores")
		return
	}
	stores, err := s.withUserRatings(rows, ratingUserID(c))
	if err != nil {
		s.internalError(c, err, "Failed to load user ratings")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"stores": stores})
}

func (s *Server) getStore(c *gin.Context) {
	row, err := s.loadStore(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "Store not found")
		return
	}
	if err != nil {
		s.internalError(c, err, "Failed to load store")
		return
	}
	stores, err := s.withUserRatings([]storeRow{row}, ratingUserID(c))
	if err != nil {
		s.internalError(c, err, "Failed to load user rating")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"store": stores[0]})
}

func (s *Server) myStores(c *gin.Context) {
	rows, err := s.filteredStores(c, s.storeQuery().Where("stores.owner_id = ?", caller(c).UserID))
	if err != nil {
		s.internalError(c, err, "Failed to list stores")
		return
	}
	stores, _ := s.withUserRatings(rows, "")
	ok(c, http.StatusOK, "", gin.H{"stores": stores})
}

func (s *Server) adminStores(c *gin.Context) {
	rows, err := s.filteredStores(c, s.storeQuery())
	if err != nil {
		s.internalError(c, err, "Failed to list stores")
		return
	}
	stores, _ := s.withUserRatings(rows, "")
	ok(c, http.StatusOK, "", gin.H{"stores": stores})
}

// checkOwner verifies ownerID is a store owner, answering 400 otherwise
func (s *Server) checkOwner(c *gin.Context, ownerID string) bool {
	var owner models.User
	if err := models.FindByID(s.db, ownerID, &owner); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusBadRequest, "Store owner not found")
			return false
		}
		s.internalError(c, err, "Failed to load store owner")
		return false
	}
	if owner.Role != models.RoleStoreOwner {
		fail(c, http.StatusBadRequest, "Selected user is not a store owner")
		return false
	}
	return true
}

func (s *Server) createStore(c *gin.Context) {
	var req CreateStoreRequest
	if !bindJSON(c, &req) {
		return
	}
	if !s.checkOwner(c, req.OwnerID) {
		return
	}

	store := &models.Store{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Address:     strings.TrimSpace(req.Address),
		Description: req.Description,
		OwnerID:     req.OwnerID,
		IsActive:    true,
	}
	if err := s.db.Create(store).Error; err != nil {
		s.internalError(c, err, "Failed to create store")
		return
	}

	row, err := s.loadStore(store.ID)
	if err != nil {
		s.internalError(c, err, "Failed to load store")
		return
	}
	s.logger.Info().Str("store_id", store.ID).Str("owner_id", store.OwnerID).Msg("Store created")
	ok(c, http.StatusCreated, "Store created successfully", gin.H{"store": row.response()})
}

func (s *Server) updateStore(c *gin.Context) {
	var req UpdateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	var store models.Store
	if err := models.FindByID(s.db, c.Param("id"), &store); err != nil {
		fail(c, http.StatusNotFound, "Store not found")
		return
	}

	sd := caller(c)
	if sd.Role == models.RoleStoreOwner && store.OwnerID != sd.UserID {
		fail(c, http.StatusForbidden, "You can only update your own stores")
		return
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Address != "" {
		updates["address"] = strings.TrimSpace(req.Address)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.OwnerID != "" && req.OwnerID != store.OwnerID {
		if sd.Role != models.RoleAdmin {
			fail(c, http.StatusForbidden, "Only administrators can reassign stores")
			return
		}
		if !s.checkOwner(c, req.OwnerID) {
			return
		}
		updates["owner_id"] = req.OwnerID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&store).Updates(updates).Error; err != nil {
			s.internalError(c, err, "Failed to update store")
			return
		}
	}

	row, err := s.loadStore(store.ID)
	if err != nil {
		s.internalError(c, err, "Failed to load store")
		return
	}
	ok(c, http.StatusOK, "Store updated successfully", gin.H{"store": row.response()})
}

func (s *Server) deleteStore(c *gin.Context) {
	id := c.Param("id")
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Store{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "Store not found")
		return
	}
	if err != nil {
		s.internalError(c, err, "Failed to delete store")
		return
	}
	ok(c, http.StatusOK, "Store deleted successfully", nil)
}
