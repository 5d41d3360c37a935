package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/content-publishing-api/internal/cache"
	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"github.com/content-publishing-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos         *repository.Repositories
	identity      IdentityResolver
	tags          TagService
	validator     *validation.Validator
	cache         *cache.Cache
	summaryLength int
	now           func() time.Time
	log           zerolog.Logger
}

func newArticleService(
	repos *repository.Repositories,
	identity IdentityResolver,
	tags TagService,
	validator *validation.Validator,
	cfg *config.ContentConfig,
	opts Options,
	log zerolog.Logger,
) *articleService {
	return &articleService{
		repos:         repos,
		identity:      identity,
		tags:          tags,
		validator:     validator,
		cache:         opts.Cache,
		summaryLength: cfg.SummaryLength,
		now:           opts.Now,
		log:           log.With().Str("service", "article").Logger(),
	}
}

// Save creates the article when req.ID is empty or unknown and edits it
// otherwise. The article row and its tags are written in one transaction.
func (s *articleService) Save(ctx context.Context, principal string, req *models.SaveArticleRequest) (string, error) {
	if err := validation.AsError(s.validator.ValidateSaveRequest(req)); err != nil {
		return "", err
	}

	author, err := s.identity.Lookup(ctx, principal)
	if err != nil {
		return "", err
	}

	category, err := s.repos.Category.GetByID(ctx, req.CategoryID)
	if err != nil {
		return "", errs.Upstream("load category", err)
	}
	if category == nil {
		return "", errs.NewNotFound("category", req.CategoryID)
	}

	now := s.now().UTC().Truncate(time.Second)
	var article *models.Article
	var created bool

	err = s.repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		article, created = nil, false
		if req.ID != "" {
			existing, err := tx.Article.GetByID(ctx, req.ID)
			if err != nil {
				return errs.Upstream("load article", err)
			}
			article = existing
		}

		if article == nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			article = &models.Article{ID: id.String(), PublishDate: now}
			created = true
		}

		article.Title = req.Title
		article.HTMLContent = req.HTMLContent
		article.MDContent = req.MDContent
		article.Summary = req.Summary
		if article.Summary == "" {
			article.Summary = DeriveSummary(req.HTMLContent, s.summaryLength)
		}
		article.CategoryID = category.ID
		article.CategoryName = category.CateName
		article.UserID = author.Username
		article.Nickname = author.Nickname
		article.SetState(req.State)
		article.DynamicTags = req.DynamicTags

		// Edit time never precedes publish time
		article.EditTime = now
		if article.EditTime.Before(article.PublishDate) {
			article.EditTime = article.PublishDate
		}

		write := tx.Article.Update
		if created {
			write = tx.Article.Create
		}
		if err := write(ctx, article); err != nil {
			return err
		}

		return s.tags.Reconcile(ctx, tx, article.ID, req.DynamicTags)
	})
	if err != nil {
		s.log.Error().Err(err).Str("article_id", req.ID).Msg("Failed to save article")
		return "", classifyTx("save article", err)
	}

	s.cache.Invalidate()

	s.log.Info().
		Str("article_id", article.ID).
		Bool("created", created).
		Str("state", article.StateStr).
		Int("tags", len(req.DynamicTags)).
		Msg("Article saved")

	return article.ID, nil
}

// View increments the page view counter and returns the public projection.
// The increment is a read-modify-write of the counter alone: concurrent
// views of the same article may lose increments.
func (s *articleService) View(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.load(ctx, s.repos, id)
	if err != nil {
		return nil, err
	}

	article.PageView++
	if err := s.repos.Article.SetPageView(ctx, article.ID, article.PageView); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewNotFound("article", id)
		}
		return nil, errs.Upstream("update page view", err)
	}

	s.cache.Invalidate(articlesKeyPrefix)

	article.MDContent = ""
	article.UserID = ""
	article.Summary = ""
	return article, nil
}

// SoftDelete marks every id of a comma-joined list as deleted. Either all
// ids are marked or none is.
func (s *articleService) SoftDelete(ctx context.Context, ids string) error {
	list, verrs := s.validator.SplitIDs(ids)
	if err := validation.AsError(verrs); err != nil {
		return err
	}

	err := s.repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		for _, id := range list {
			if err := markDeleted(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classifyTx("delete articles", err)
	}

	s.cache.Invalidate()
	s.log.Info().Strs("article_ids", list).Msg("Articles marked deleted")
	return nil
}

// markDeleted flips the state only; the view counter is left alone
func markDeleted(ctx context.Context, tx *repository.Repositories, id string) error {
	article, err := tx.Article.GetByID(ctx, id)
	if err != nil {
		return errs.Upstream("load article", err)
	}
	if article == nil {
		return errs.NewNotFound("article", id)
	}
	article.SetState(models.StateDeleted)
	return tx.Article.Update(ctx, article)
}

// Get returns the full article with its tags in any state
func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	return s.load(ctx, s.repos, id)
}

func (s *articleService) load(ctx context.Context, repos *repository.Repositories, id string) (*models.Article, error) {
	article, err := repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Upstream("load article", err)
	}
	if article == nil {
		return nil, errs.NewNotFound("article", id)
	}

	tags, err := repos.Tag.ListByArticleID(ctx, id)
	if err != nil {
		return nil, errs.Upstream("load tags", err)
	}
	article.Tags = tags
	return article, nil
}

// List returns one page of published articles, newest first, without
// content bodies. An out of range page is empty.
func (s *articleService) List(ctx context.Context, page, count int, categoryName string) ([]*models.Article, error) {
	if err := validation.AsError(s.validator.ValidatePage(page, count)); err != nil {
		return nil, err
	}
	// An offset past math.MaxInt cannot hold any row
	if page-1 > math.MaxInt/count {
		return []*models.Article{}, nil
	}

	key := cache.Key(articlesKeyPrefix+"list", page, count, categoryName)
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]*models.Article, error) {
		articles, err := s.repos.Article.List(ctx, models.ListQuery{
			State:        models.StatePublished,
			CategoryName: categoryName,
			Offset:       (page - 1) * count,
			Limit:        count,
		})
		if err != nil {
			return nil, errs.Upstream("list articles", err)
		}

		for _, article := range articles {
			tags, err := s.repos.Tag.ListByArticleID(ctx, article.ID)
			if err != nil {
				return nil, errs.Upstream("load tags", err)
			}
			article.Tags = tags
			article.HTMLContent = ""
			article.MDContent = ""
		}
		return articles, nil
	})
}

// ListAll returns every published article with full content
func (s *articleService) ListAll(ctx context.Context) ([]*models.Article, error) {
	return cache.GetOrLoad(ctx, s.cache, articlesKeyPrefix+"all", func(ctx context.Context) ([]*models.Article, error) {
		articles, err := s.repos.Article.FindAllByState(ctx, models.StatePublished)
		if err != nil {
			return nil, errs.Upstream("list published articles", err)
		}
		if articles == nil {
			articles = []*models.Article{}
		}
		return articles, nil
	})
}

// CountByState returns the number of articles per state
func (s *articleService) CountByState(ctx context.Context) (map[models.ArticleState]int, error) {
	counts, err := s.repos.Article.CountByState(ctx)
	if err != nil {
		return nil, errs.Upstream("count articles", err)
	}
	return counts, nil
}

// classifyTx keeps errors that already carry a kind, such as an
// unreachable database at begin or commit, and reports a failed write
// inside the unit of work as a rolled back transaction.
func classifyTx(operation string, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.NewTransactionFailed(operation, err)
}
