package devapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storerate/storerate/internal/auth"
	"github.com/storerate/storerate/internal/models"
)

// SignupRequest registers a normal user
type SignupRequest struct {
	Name     string `json:"name" binding:"min=20,max=60"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"min=8,max=16,hasupper,hasspecial"`
	Address  string `json:"address" binding:"max=400"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"min=8,max=16,hasupper,hasspecial"`
}

type authPayload struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, status, msg := s.createAccount(req.Name, req.Email, req.Password, req.Address, models.RoleUser)
	if user == nil {
		fail(c, status, msg)
		return
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.internalError(c, err, "Failed to generate token")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User signed up")
	ok(c, http.StatusCreated, "User registered successfully", authPayload{User: newUserResponse(*user), Token: token})
}

// createAccount inserts a user. On failure it returns the status and message to send.
func (s *Server) createAccount(name, email, password, address, role string) (*models.User, int, string) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check email")
		return nil, http.StatusInternalServerError, "Internal server error"
	}
	if count > 0 {
		return nil, http.StatusConflict, "User with this email already exists"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, http.StatusInternalServerError, "Internal server error"
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Address:      strings.TrimSpace(address),
		Role:         role,
	}
	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		return nil, http.StatusInternalServerError, "Internal server error"
	}
	return user, 0, ""
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.login(false)
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.internalError(c, err, "Failed to find user")
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		s.metrics.login(false)
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.internalError(c, err, "Failed to generate token")
		return
	}

	s.metrics.login(true)
	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("User logged in")
	ok(c, http.StatusOK, "Login successful", authPayload{User: newUserResponse(user), Token: token})
}

func (s *Server) getProfile(c *gin.Context) {
	var user models.User
	if err := models.FindByID(s.db, caller(c).UserID, &user); err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"user": newUserResponse(user)})
}

// changePassword answers a wrong current password with 400, never 401: a 401 would
// end the caller's session
func (s *Server) changePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := models.FindByID(s.db, caller(c).UserID, &user); err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	if err := auth.VerifyPassword(req.CurrentPassword, user.PasswordHash); err != nil {
		fail(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.internalError(c, err, "Failed to hash password")
		return
	}
	if err := s.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		s.internalError(c, err, "Failed to update password")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Password changed")
	ok(c, http.StatusOK, "Password changed successfully", nil)
}
