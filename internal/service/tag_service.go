package service

import (
	"context"
	"strings"

	"github.com/content-publishing-api/internal/cache"
	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// tagService is the concrete implementation of TagService
type tagService struct {
	tags  repository.TagRepository
	scope string
	cache *cache.Cache
	log   zerolog.Logger
}

func newTagService(tags repository.TagRepository, scope string, c *cache.Cache, log zerolog.Logger) *tagService {
	if scope == "" {
		scope = config.TagScopeArticle
	}
	return &tagService{
		tags:  tags,
		scope: scope,
		cache: c,
		log:   log.With().Str("service", "tag").Str("scope", scope).Logger(),
	}
}

// Reconcile replaces the tags of articleID with names, in input order.
// Blank names are ignored and a name is inserted at most once per call.
// With the global scope a name already owned by any article is skipped.
func (s *tagService) Reconcile(ctx context.Context, repos *repository.Repositories, articleID string, names []string) error {
	if err := repos.Tag.DeleteByArticleID(ctx, articleID); err != nil {
		return err
	}

	inserted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || inserted[name] {
			continue
		}

		if s.scope == config.TagScopeGlobal {
			exists, err := repos.Tag.NameExists(ctx, name)
			if err != nil {
				return errs.Upstream("check tag name", err)
			}
			if exists {
				s.log.Debug().Str("article_id", articleID).Str("tag", name).Msg("Tag name already claimed, skipping")
				continue
			}
		}

		tag := &models.Tag{
			ID:        uuid.New().String(),
			TagName:   name,
			ArticleID: articleID,
		}
		if err := repos.Tag.Create(ctx, tag); err != nil {
			return err
		}
		inserted[name] = true
	}

	return nil
}

// ListAll returns every tag row
func (s *tagService) ListAll(ctx context.Context) ([]models.Tag, error) {
	return cache.GetOrLoad(ctx, s.cache, tagsKeyPrefix+"all", func(ctx context.Context) ([]models.Tag, error) {
		tags, err := s.tags.ListAll(ctx)
		if err != nil {
			return nil, errs.Upstream("list tags", err)
		}
		return tags, nil
	})
}
