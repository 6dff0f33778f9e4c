// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/keychain/internal/errors"
)

const internalErrorMessage = "an internal error occurred"

// Response is the two-slot body of every bridge response. Error is non-empty exactly when the
// operation failed, in which case Result must be ignored.
type Response struct {
	Error  string `json:"error"`
	Result string `json:"result"`
}

// StatusCode maps a domain error to the HTTP status code reported for it.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case apperrors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleErrorGin maps domain errors to HTTP status codes and writes the two-slot response.
// Messages of internal errors are replaced so storage details never reach the client.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := StatusCode(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = internalErrorMessage
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, Response{Error: message})
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, Response{Error: err.Error()})
}

// HandleSuccessGin writes a 200 OK two-slot response carrying result.
func HandleSuccessGin(c *gin.Context, result string) {
	c.JSON(http.StatusOK, Response{Result: result})
}
