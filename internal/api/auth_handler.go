package api

import (
	"net/http"
	"time"

	"github.com/content-publishing-api/internal/auth"
	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler issues bearer tokens for known authors
type AuthHandler struct {
	services *service.Services
	tokens   *auth.Tokens
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, tokens *auth.Tokens, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		tokens:   tokens,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// IssueToken handles POST /v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		respondError(c, h.log, errs.NewValidation("username", "username is required"))
		return
	}

	user, err := h.services.Identity.Lookup(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, expires, err := h.tokens.Issue(user.Username)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("username", user.Username).Msg("Token issued")
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}
