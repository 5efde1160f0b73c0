package response

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse standardizes API errors.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ValidationError writes 400 payloads.
func ValidationError(c *gin.Context, err error) {
	resp := ErrorResponse{Error: "validation_error", Message: "invalid request"}
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		detail := make(map[string]string)
		for _, field := range verr {
			detail[strings.ToLower(field.Field())] = field.Tag()
		}
		resp.Details = detail
	}
	c.JSON(http.StatusBadRequest, resp)
}

// Unauthorized helper.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: message})
}

// Forbidden helper.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: message})
}

// NotFound helper.
func NotFound(c *gin.Context, resource string) {
	msg := "resource not found"
	if resource != "" {
		msg = resource + " not found"
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: msg})
}

// TooManyRequests helper.
func TooManyRequests(c *gin.Context, reset time.Time) {
	resetSeconds := strconv.FormatInt(reset.Unix(), 10)
	retryAfter := int(time.Until(reset).Seconds())
	if retryAfter < 0 {
		retryAfter = 0
	}
	c.Writer.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	c.Writer.Header().Set("X-RateLimit-Reset", resetSeconds)
	c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate_limited", Message: "slow down"})
}

// InternalServerError helper.
func InternalServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "unexpected error"})
	if gin.IsDebugging() {
		c.Error(err) // surface for logs
	}
}
