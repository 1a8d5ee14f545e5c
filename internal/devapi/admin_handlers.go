package devapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storerate/storerate/internal/models"
)

// CreateUserRequest adds an account with any role
type CreateUserRequest struct {
	Name     string `json:"name" binding:"min=20,max=60"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"min=8,max=16,hasupper,hasspecial"`
	Address  string `json:"address" binding:"max=400"`
	Role     string `json:"role" binding:"required,role"`
}

var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"role":       "role",
	"created_at": "created_at",
}

type dashboardResponse struct {
	TotalUsers            int64          `json:"total_users"`
	TotalStores           int64          `json:"total_stores"`
	TotalRatings          int64          `json:"total_ratings"`
	AveragePlatformRating float64        `json:"average_platform_rating"`
	RecentActivity        recentActivity `json:"recent_activity"`
}

type recentActivity struct {
	UsersThisMonth   int64 `json:"users_this_month"`
	StoresThisMonth  int64 `json:"stores_this_month"`
	RatingsThisMonth int64 `json:"ratings_this_month"`
}

func (s *Server) adminDashboard(c *gin.Context) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var d dashboardResponse
	counts := []struct {
		model any
		all   *int64
		month *int64
	}{
		{&models.User{}, &d.TotalUsers, &d.RecentActivity.UsersThisMonth},
		{&models.Store{}, &d.TotalStores, &d.RecentActivity.StoresThisMonth},
		{&models.Rating{}, &d.TotalRatings, &d.RecentActivity.RatingsThisMonth},
	}
	for _, q := range counts {
		if err := s.db.Model(q.model).Count(q.all).Error; err != nil {
			s.internalError(c, err, "Failed to count records")
			return
		}
		if err := s.db.Model(q.model).Where("created_at >= ?", monthStart).Count(q.month).Error; err != nil {
			s.internalError(c, err, "Failed to count records")
			return
		}
	}

	var avg float64
	if err := s.db.Model(&models.Rating{}).Select("COALESCE(AVG(rating), 0)").Scan(&avg).Error; err != nil {
		s.internalError(c, err, "Failed to average ratings")
		return
	}
	d.AveragePlatformRating = round2(avg)

	ok(c, http.StatusOK, "", gin.H{"dashboard": d})
}

func (s *Server) listUsers(c *gin.Context) {
	q := s.db.Model(&models.User{})
	for _, field := range []string{"name", "email", "address"} {
		if v := strings.TrimSpace(c.Query(field)); v != "" {
			q = q.Where("LOWER("+field+") LIKE ?", "%"+strings.ToLower(v)+"%")
		}
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", strings.ToLower(role))
	}
	q = q.Order(sortClause(userSortColumns, c.Query("sortBy"), c.Query("sortOrder"), "name"))

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		s.internalError(c, err, "Failed to list users")
		return
	}

	averages, err := s.ownerAverages(users)
	if err != nil {
		s.internalError(c, err, "Failed to average owner ratings")
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp := newUserResponse(u)
		if u.Role == models.RoleStoreOwner {
			avg := averages[u.ID]
			resp.AverageRating = &avg
		}
		out = append(out, resp)
	}
	ok(c, http.StatusOK, "", gin.H{"users": out})
}

// ownerAverages averages the ratings across each store owner's stores
func (s *Server) ownerAverages(users []models.User) (map[string]float64, error) {
	var ids []string
	for _, u := range users {
		if u.Role == models.RoleStoreOwner {
			ids = append(ids, u.ID)
		}
	}
	out := make(map[string]float64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		OwnerID string
		Average float64
	}
	err := s.db.Table("ratings").
		Select("stores.owner_id AS owner_id, AVG(ratings.rating) AS average").
		Joins("JOIN stores ON stores.id = ratings.store_id").
		Where("stores.owner_id IN ?", ids).
		Group("stores.owner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.OwnerID] = round2(r.Average)
	}
	return out, nil
}

func (s *Server) getUser(c *gin.Context) {
	var user models.User
	err := models.FindByID(s.db, c.Param("id"), &user)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internalError(c, err, "Failed to load user")
		return
	}

	resp := newUserResponse(user)
	if user.Role == models.RoleStoreOwner {
		var rows []storeRow
		if err := s.storeQuery().Where("stores.owner_id = ?", user.ID).Order("stores.name ASC").Scan(&rows).Error; err != nil {
			s.internalError(c, err, "Failed to load owned stores")
			return
		}
		var sum float64
		var total int
		for _, r := range rows {
			resp.Stores = append(resp.Stores, ownedStore{
				StoreID:       r.ID,
				StoreName:     r.Name,
				AverageRating: round2(r.AverageRating),
				TotalRatings:  r.TotalRatings,
			})
			sum += r.AverageRating * float64(r.TotalRatings)
			total += r.TotalRatings
		}
		avg := 0.0
		if total > 0 {
			avg = round2(sum / float64(total))
		}
		resp.AverageRating = &avg
	}

	ok(c, http.StatusOK, "", gin.H{"user": resp})
}

func (s *Server) createUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, status, msg := s.createAccount(req.Name, req.Email, req.Password, req.Address, req.Role)
	if user == nil {
		fail(c, status, msg)
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Str("by", caller(c).UserID).Msg("User created by admin")
	ok(c, http.StatusCreated, "User created successfully", gin.H{"user": newUserResponse(*user)})
}
