package devapi

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/storerate/storerate/internal/auth"
	"github.com/storerate/storerate/internal/models"
)

const (
	bearerPrefix    = "Bearer "
	requestIDHeader = "X-Request-ID"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUserNotFound      = errors.New("user not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

// GetSessionData returns the authenticated caller set by JWTAuthMiddleware
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

// caller is GetSessionData for handlers behind JWTAuthMiddleware
func caller(c *gin.Context) *auth.SessionData {
	sd, _ := GetSessionData(c)
	if sd == nil {
		return &auth.SessionData{}
	}
	return sd
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	fail(c, statusCode, message)
}

// JWTAuthMiddleware validates the bearer token and loads the caller. Every failure
// is a 401, which the CLI treats as an expired session.
func (s *Server) JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			var message string
			switch err {
			case ErrMissingAuthHeader:
				message = "Access token required"
			case ErrInvalidAuthFormat:
				message = "Invalid authorization header format"
			case ErrEmptyToken:
				message = "Empty token"
			}
			respondWithError(c, s.logger, http.StatusUnauthorized, err, message)
			return
		}

		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			respondWithError(c, s.logger, http.StatusUnauthorized, ErrInvalidToken, "Invalid or expired token")
			return
		}

		// Verify user still exists; role comes from the database, not the token
		var user models.User
		if err := models.FindByID(s.db, claims.UserID, &user); err != nil {
			respondWithError(c, s.logger, http.StatusUnauthorized, ErrUserNotFound, "User not found")
			return
		}

		setSession(c, &auth.SessionData{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Role:   user.Role,
		})

		c.Next()
	}
}

// RoleMiddleware admits only the given roles
func RoleMiddleware(log zerolog.Logger, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), "Unauthorized")
			return
		}

		if !slices.Contains(roles, sessionData.Role) {
			respondWithError(c, log, http.StatusForbidden, errors.New("role not allowed"), "Access denied. Insufficient permissions.")
			return
		}

		c.Next()
	}
}

// loggingMiddleware logs each request with zerolog, tagging it with the caller's
// request id or a fresh one
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = ulid.Make().String()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		ev := s.logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = s.logger.Error()
		}
		if sd, ok := GetSessionData(c); ok {
			ev = ev.Str("role", sd.Role)
		}
		ev.Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}
