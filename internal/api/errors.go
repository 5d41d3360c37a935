package api

import (
	"errors"
	"net/http"

	"github.com/content-publishing-api/internal/errs"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError writes err as JSON with the status of its kind.
// Unclassified errors become a 500 without details.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := errs.StatusCode(err)
	body := gin.H{
		"error":  "internal server error",
		"status": status,
	}

	var e *errs.Error
	if errors.As(err, &e) {
		body["error"] = errors.Unwrap(e).Error()
		body["details"] = e.Details
		body["retryable"] = e.Retryable()
		if e.Field != "" {
			body["field"] = e.Field
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, body)
}
