package api

import (
	"context"
	"net/http"
	"time"

	"github.com/content-publishing-api/internal/auth"
	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// healthTimeout bounds each dependency check of /health
const healthTimeout = 2 * time.Second

// HealthCheck probes one dependency for /health
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, tokens *auth.Tokens, cfg *config.Config, log zerolog.Logger, checks ...HealthCheck) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	exportHandler := NewExportHandler(services, log)
	fileHandler := NewFileHandler(services, cfg, log)
	authHandler := NewAuthHandler(services, tokens, log)
	requireAuth := tokens.Middleware()

	// Health check
	router.GET("/health", healthCheck(checks))
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		if cfg.Auth.AllowTokenIssue {
			v1.POST("/auth/token", authHandler.IssueToken)
		}

		// Article endpoints
		articles := v1.Group("/articles")
		{
			articles.POST("", requireAuth, articleHandler.Save)
			articles.GET("", articleHandler.List)
			articles.GET("/all", articleHandler.ListAll)
			articles.GET("/export", exportHandler.StreamExport)
			articles.GET("/:id", articleHandler.View)
			articles.DELETE("/:ids", requireAuth, articleHandler.Delete)
		}

		admin := v1.Group("/admin", requireAuth)
		{
			admin.GET("/articles/:id", articleHandler.Get)
		}

		v1.GET("/tags", articleHandler.Tags)
		v1.GET("/stats/pageviews", articleHandler.PageViews)
		v1.GET("/feed.rss", exportHandler.RSS)

		// File endpoints
		v1.POST("/files", requireAuth, fileHandler.Upload)
		v1.GET("/files/:name", fileHandler.Download)
	}

	return router
}

// healthCheck returns the health status of the service and its dependencies
func healthCheck(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		deps := gin.H{}
		for _, hc := range checks {
			ctx, cancel := contextWithTimeout(c, healthTimeout)
			err := hc.Check(ctx)
			cancel()

			if err != nil {
				status = http.StatusServiceUnavailable
				deps[hc.Name] = err.Error()
				continue
			}
			deps[hc.Name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":       state,
			"timestamp":    time.Now().Format(time.RFC3339),
			"service":      "content-publishing-api",
			"dependencies": deps,
		})
	}
}

// metricsHandler returns article counts per state
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := services.Article.CountByState(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to count articles"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"articles": gin.H{
				"draft":     counts[models.StateDraft],
				"published": counts[models.StatePublished],
				"deleted":   counts[models.StateDeleted],
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
