package middleware

import (
	"errors"
	"fmt"
	"net/http"

	domainerr "github.com/amirhossein-jamali/spin-rewards/internal/domain/error"
	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers from panics and renders errors that
// handlers attached with c.Error when no response has been written
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      fmt.Sprint(rec),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": c.GetString(RequestIDKey),
					"user_agent": c.Request.UserAgent(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:      domainerr.ErrorCode(domainerr.ErrInternalServer),
					Message:   "Internal server error",
					RequestID: c.GetString(RequestIDKey),
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", map[string]any{
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
				"request_id": c.GetString(RequestIDKey),
				"error":      err.Error(),
			})
		}

		c.JSON(status, dto.ErrorResponse{
			Code:      domainerr.ErrorCode(err),
			Message:   PublicMessage(err, status),
			RequestID: c.GetString(RequestIDKey),
		})
	}
}

// StatusFor maps a domain error to an HTTP status code
func StatusFor(err error) int {
	switch domainerr.ErrorCode(err) {
	case domainerr.CodeInvalidAmount, domainerr.CodeInvalidUserID, domainerr.CodeInvalidRequest:
		return http.StatusBadRequest
	case domainerr.CodeWordNotFound, domainerr.CodeNotFound:
		return http.StatusNotFound
	case domainerr.CodeInsufficientSpins, domainerr.CodeInsufficientLetters,
		domainerr.CodeConcurrentUpdate, domainerr.CodeConstraintViolation:
		return http.StatusConflict
	case domainerr.CodeInvalidConfiguration, domainerr.CodeWordNotClaimable:
		return http.StatusUnprocessableEntity
	case domainerr.CodeNoActiveSlots, domainerr.CodeMissionNotConfigured, domainerr.CodeDatabaseConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message shown to API clients. Server errors never
// expose their cause.
func PublicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "Internal server error"
	}
	if status == http.StatusServiceUnavailable && errors.Is(err, domainerr.ErrDatabaseConnection) {
		return "Storage temporarily unavailable"
	}
	return err.Error()
}
