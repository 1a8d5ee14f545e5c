package devapi

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ok writes the success envelope: {"success": true, "message": ..., "data": ...}
func ok(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail writes the error envelope and stops the handler chain
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// internalError logs err and answers 500 without leaking details
func (s *Server) internalError(c *gin.Context, err error, msg string) {
	s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	fail(c, http.StatusInternalServerError, "Internal server error")
}

// bindJSON decodes and validates the body, answering 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return false
	}
	return true
}

// bindingMessage words the first validation failure for the client
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email"
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	case "hasupper":
		return "Password must contain at least one uppercase letter"
	case "hasspecial":
		return "Password must contain at least one special character"
	case "role":
		return "Invalid role"
	}
	return fmt.Sprintf("%s is invalid", field)
}

// round2 rounds an average to two decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
