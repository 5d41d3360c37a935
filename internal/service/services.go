package service

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/content-publishing-api/internal/cache"
	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/filestore"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"github.com/content-publishing-api/internal/validation"
	"github.com/rs/zerolog"
)

// MaxPageSize caps the count accepted by List
const MaxPageSize = 100

// Cache key prefixes, invalidated by the mutating operations
const (
	articlesKeyPrefix  = "articles:"
	tagsKeyPrefix      = "tags:"
	pageViewsKeyPrefix = "pageviews:"
)

// ArticleService owns the article lifecycle and the listing reads
type ArticleService interface {
	Save(ctx context.Context, principal string, req *models.SaveArticleRequest) (string, error)
	View(ctx context.Context, id string) (*models.Article, error)
	SoftDelete(ctx context.Context, ids string) error
	Get(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, page, count int, categoryName string) ([]*models.Article, error)
	ListAll(ctx context.Context) ([]*models.Article, error)
	CountByState(ctx context.Context) (map[models.ArticleState]int, error)
}

// TagService reconciles and lists tags
type TagService interface {
	// Reconcile runs on the repositories of the caller's transaction
	Reconcile(ctx context.Context, repos *repository.Repositories, articleID string, names []string) error
	ListAll(ctx context.Context) ([]models.Tag, error)
}

// PageViewService reads and appends the visit log
type PageViewService interface {
	RecentViewSeries(ctx context.Context) (*models.PageViewSeries, error)
	RecordVisit(ctx context.Context, at time.Time) error
}

// IdentityResolver resolves an authenticated principal to an author
type IdentityResolver interface {
	Lookup(ctx context.Context, principal string) (*models.User, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
}

// FeedService renders the public feed
type FeedService interface {
	RSS(ctx context.Context) (string, error)
}

// FileService stores and serves uploaded files
type FileService interface {
	Upload(ctx context.Context, name string, r io.Reader) (*UploadedFile, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Services holds all service interfaces
type Services struct {
	Article  ArticleService
	Tag      TagService
	PageView PageViewService
	Identity IdentityResolver
	Export   ExportService
	Feed     FeedService
	File     FileService
}

// Options carries collaborators that are not repositories
type Options struct {
	Cache *cache.Cache     // nil disables caching
	Files filestore.Store  // nil disables uploads
	Now   func() time.Time // defaults to time.Now
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	validator := validation.NewValidator(MaxPageSize)
	identitySvc := newIdentityResolver(repos.User, log)
	tagSvc := newTagService(repos.Tag, cfg.Content.TagScope, opts.Cache, log)
	articleSvc := newArticleService(repos, identitySvc, tagSvc, validator, &cfg.Content, opts, log)

	return &Services{
		Article:  articleSvc,
		Tag:      tagSvc,
		PageView: newPageViewService(repos.ViewEvent, cfg.Content.PageViewWindow, opts.Cache, log),
		Identity: identitySvc,
		Export:   newExportService(repos.Article, log),
		Feed:     newFeedService(articleSvc, &cfg.Feed, log),
		File:     newFileService(opts.Files, log),
	}
}
