package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/content-publishing-api/internal/auth"
	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Defaults for GET /v1/articles
const (
	defaultPage  = 1
	defaultCount = 10
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// Save handles POST /v1/articles
func (h *ArticleHandler) Save(c *gin.Context) {
	var req models.SaveArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, errs.NewValidation("body", "invalid request body"))
		return
	}

	id, err := h.services.Article.Save(c.Request.Context(), auth.Principal(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": "success"})
}

// List handles GET /v1/articles?page=&count=&category=
func (h *ArticleHandler) List(c *gin.Context) {
	page, err := intQuery(c, "page", defaultPage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	count, err := intQuery(c, "count", defaultCount)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	category := c.Query("category")

	articles, err := h.services.Article.List(c.Request.Context(), page, count, category)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"page":     page,
		"count":    count,
	})
}

// ListAll handles GET /v1/articles/all
func (h *ArticleHandler) ListAll(c *gin.Context) {
	articles, err := h.services.Article.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// View handles GET /v1/articles/:id and records the visit
func (h *ArticleHandler) View(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	article, err := h.services.Article.View(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.services.PageView.RecordVisit(ctx, time.Now()); err != nil {
		h.log.Warn().Err(err).Str("article_id", id).Msg("Failed to record visit")
	}

	c.JSON(http.StatusOK, article)
}

// Get handles GET /v1/admin/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:ids with one id or a comma-joined list
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.SoftDelete(c.Request.Context(), c.Param("ids")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Tags handles GET /v1/tags
func (h *ArticleHandler) Tags(c *gin.Context) {
	tags, err := h.services.Tag.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// PageViews handles GET /v1/stats/pageviews
func (h *ArticleHandler) PageViews(c *gin.Context) {
	series, err := h.services.PageView.RecentViewSeries(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// intQuery parses an integer query parameter, using def when it is absent
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidation(name, "must be an integer")
	}
	return v, nil
}
