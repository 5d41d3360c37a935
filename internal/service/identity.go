package service

import (
	"context"
	"strings"

	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"github.com/rs/zerolog"
)

// identityResolver looks authors up in the user store
type identityResolver struct {
	users repository.UserRepository
	log   zerolog.Logger
}

func newIdentityResolver(users repository.UserRepository, log zerolog.Logger) *identityResolver {
	return &identityResolver{
		users: users,
		log:   log.With().Str("service", "identity").Logger(),
	}
}

// Lookup fails with Unauthenticated for an empty principal and NotFound for
// an unknown one.
func (s *identityResolver) Lookup(ctx context.Context, principal string) (*models.User, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return nil, errs.NewUnauthenticated("no active principal")
	}

	user, err := s.users.GetByUsername(ctx, principal)
	if err != nil {
		return nil, errs.Upstream("look up user", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user", principal)
	}
	return user, nil
}
