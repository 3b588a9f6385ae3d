// Package handlers provides HTTP handler implementations for the read-only
// status API.
//
// Every error leaves through fail or failWith and carries an ErrorResponse
// with a stable code. Server-side failures are logged with the
// request-scoped logger and their detail is not echoed to the client.
//
//	HTTP/1.1 404 Not Found
//	{"request_id":"123e4567-e89b-12d3-a456-426614174000","code":"not_found","message":"order not found"}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booster-bot/internal/http/middleware"
	"github.com/tbourn/go-booster-bot/internal/services"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code    string `json:"code" example:"not_found"`
	Message string `json:"message" example:"order not found"`
}

// serviceErrors maps service sentinels to a status, code and public message.
var serviceErrors = []struct {
	err    error
	status int
	code   string
	msg    string
}{
	{services.ErrInvalidOrderID, http.StatusBadRequest, ErrCodeInvalidOrderID, "not an order identifier"},
	{services.ErrOrderNotFound, http.StatusNotFound, ErrCodeNotFound, "order not found"},
	{services.ErrStatsUnavailable, http.StatusNotFound, ErrCodeNotFound, "not available for this log backend"},
}

// failWith translates a service error. Errors without a mapping become a 500
// with fallbackCode.
func failWith(c *gin.Context, err error, fallbackCode string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			fail(c, m.status, m.code, m.msg)
			return
		}
	}
	middleware.LoggerFrom(c).Error().Err(err).Str("code", fallbackCode).Msg("status query failed")
	fail(c, http.StatusInternalServerError, fallbackCode, "internal error")
}

// fail aborts the request with a structured error. 5xx responses are logged.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is fail for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, body any) { c.JSON(http.StatusOK, body) }
