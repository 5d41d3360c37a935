package api

import (
	"net/http"

	"github.com/content-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles bulk export and feed endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/articles/export?format=...
// Streams every published article directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatNDJSON)

	h.log.Info().Str("format", format).Msg("Starting streaming export")

	if err := h.services.Export.StreamArticles(c.Request.Context(), c.Writer, format); err != nil {
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			respondError(c, h.log, err)
			return
		}
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
	}
}

// RSS handles GET /v1/feed.rss
func (h *ExportHandler) RSS(c *gin.Context) {
	rss, err := h.services.Feed.RSS(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
