package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/filestore"
	"github.com/content-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// FileHandler handles upload and download endpoints
type FileHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *FileHandler {
	return &FileHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "file").Logger(),
	}
}

// Upload handles POST /v1/files (multipart field "file")
func (h *FileHandler) Upload(c *gin.Context) {
	maxSize := h.cfg.Files.MaxUploadSize
	if maxSize > 0 {
		// Leave room for the multipart envelope
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+1024*1024)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, h.log, errs.NewValidation("file", "multipart file upload is required"))
		return
	}
	defer file.Close()

	// Validate file size
	if maxSize > 0 && header.Size > maxSize {
		respondError(c, h.log, errs.NewValidation("file",
			fmt.Sprintf("file too large, max size is %d MB", maxSize/(1024*1024))))
		return
	}

	uploaded, err := h.services.File.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, uploaded)
}

// Download handles GET /v1/files/:name
func (h *FileHandler) Download(c *gin.Context) {
	name, err := filestore.CleanName(c.Param("name"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rc, err := h.services.File.Open(c.Request.Context(), name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Error().Err(err).Str("name", name).Msg("Download interrupted")
	}
}
