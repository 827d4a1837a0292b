package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform body for every non-2xx answer
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// respondError maps the domain error taxonomy onto HTTP statuses. Validation
// text is caller-fixable and safe to echo; everything else gets a generic
// message while the full cause stays in logs and Sentry.
func respondError(c *gin.Context, err error) {
	var validationErr *music.ValidationError
	var configErr *music.ConfigurationError
	var genErr *music.GenerationError
	var storageErr *music.StorageError

	switch {
	case errors.As(err, &validationErr):
		writeError(c, http.StatusUnprocessableEntity, errValidation, validationErr.Error())
	case errors.As(err, &configErr):
		writeError(c, http.StatusInternalServerError, errConfiguration, msgConfiguration)
	case errors.As(err, &genErr):
		writeError(c, http.StatusBadGateway, errGeneration, msgGeneration)
	case errors.As(err, &storageErr):
		writeError(c, http.StatusInternalServerError, errStorage, msgStorage)
	default:
		writeError(c, http.StatusInternalServerError, errInternal, msgInternal)
	}
}

// respondBindError handles request bodies that fail binding before any
// domain code runs
func respondBindError(c *gin.Context, err error) {
	writeError(c, http.StatusUnprocessableEntity, errValidation, err.Error())
}

func writeError(c *gin.Context, status int, name, message string) {
	c.JSON(status, ErrorResponse{
		Error:     name,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
