package service_test

import (
	"testing"
	"time"

	"github.com/content-publishing-api/internal/cache"
	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/filestore"
	"github.com/content-publishing-api/internal/mocks"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"github.com/content-publishing-api/internal/service"
	"github.com/rs/zerolog"
)

type fixture struct {
	svc      *service.Services
	repos    *repository.Repositories
	articles *mocks.MockArticleRepository
	tags     *mocks.MockTagRepository
	views    *mocks.MockViewEventRepository
	tx       *mocks.MockTransactor
	now      time.Time
}

type fixtureOption func(*config.Config, *service.Options)

func withTagScope(scope string) fixtureOption {
	return func(cfg *config.Config, _ *service.Options) { cfg.Content.TagScope = scope }
}

func withCache() fixtureOption {
	return func(_ *config.Config, opts *service.Options) { opts.Cache = cache.New(time.Minute) }
}

func withFiles(store filestore.Store) fixtureOption {
	return func(_ *config.Config, opts *service.Options) { opts.Files = store }
}

func newFixture(t *testing.T, options ...fixtureOption) *fixture {
	t.Helper()

	repos, articles, tags := mocks.NewMockRepositories()
	repos.User.(*mocks.MockUserRepository).Users["alice"] = &models.User{Username: "alice", Nickname: "Alice"}
	repos.Category.(*mocks.MockCategoryRepository).Categories["c1"] = &models.Category{ID: "c1", CateName: "Go"}
	repos.Category.(*mocks.MockCategoryRepository).Categories["c2"] = &models.Category{ID: "c2", CateName: "SQL"}

	cfg := &config.Config{
		Content: config.ContentConfig{
			SummaryLength:  50,
			PageViewWindow: 7,
			TagScope:       config.TagScopeArticle,
		},
		Feed: config.FeedConfig{
			Title:       "Articles",
			Description: "Recently published articles",
			Link:        "https://blog.example.com/",
			Author:      "Editors",
		},
	}

	f := &fixture{
		repos:    repos,
		articles: articles,
		tags:     tags,
		views:    repos.ViewEvent.(*mocks.MockViewEventRepository),
		tx:       repos.Tx.(*mocks.MockTransactor),
		now:      time.Date(2024, 3, 1, 10, 0, 0, 500_000_000, time.UTC),
	}

	opts := service.Options{Now: func() time.Time { return f.now }}
	for _, o := range options {
		o(cfg, &opts)
	}

	f.svc = service.NewServices(repos, cfg, zerolog.Nop(), opts)
	return f
}

// seedPublished stores published articles directly, bypassing Save
func (f *fixture) seedPublished(ids ...string) {
	for _, id := range ids {
		f.articles.Articles[id] = &models.Article{
			ID:           id,
			Title:        "Article " + id,
			HTMLContent:  "<p>body " + id + "</p>",
			MDContent:    "body " + id,
			Summary:      "body " + id,
			CategoryID:   "c1",
			CategoryName: "Go",
			UserID:       "alice",
			Nickname:     "Alice",
			State:        models.StatePublished,
			StateStr:     models.StatePublished.String(),
			PublishDate:  f.now.Truncate(time.Second),
			EditTime:     f.now.Truncate(time.Second),
		}
	}
}

func (f *fixture) tagNames(articleID string) []string {
	names := []string{}
	for _, tag := range f.tags.Tags {
		if tag.ArticleID == articleID {
			names = append(names, tag.TagName)
		}
	}
	return names
}

func articleIDs(articles []*models.Article) []string {
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids
}
