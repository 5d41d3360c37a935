package service_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedRequest(tags ...string) *models.SaveArticleRequest {
	return &models.SaveArticleRequest{
		Title:       "Hello",
		HTMLContent: "<p class=x>Hello<br/>World</p>",
		MDContent:   "Hello\nWorld",
		CategoryID:  "c1",
		State:       models.StatePublished,
		DynamicTags: tags,
	}
}

func TestArticleService_SaveCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Article.Save(ctx, "alice", publishedRequest("go", "sql"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	article, err := f.svc.Article.Get(ctx, id)
	require.NoError(t, err)

	stamped := f.now.Truncate(time.Second)
	assert.Equal(t, "Hello", article.Title)
	assert.Equal(t, "HelloWorld", article.Summary)
	assert.Equal(t, "Hello\nWorld", article.MDContent)
	assert.Equal(t, "c1", article.CategoryID)
	assert.Equal(t, "Go", article.CategoryName)
	assert.Equal(t, "alice", article.UserID)
	assert.Equal(t, "Alice", article.Nickname)
	assert.Equal(t, models.StatePublished, article.State)
	assert.Equal(t, "1", article.StateStr)
	assert.Equal(t, stamped, article.PublishDate)
	assert.Equal(t, stamped, article.EditTime)
	assert.Zero(t, article.PageView)
	assert.ElementsMatch(t, []string{"go", "sql"}, f.tagNames(id))
	assert.Equal(t, 1, f.tx.Commits)
}

func TestArticleService_SaveKeepsSuppliedSummary(t *testing.T) {
	f := newFixture(t)
	req := publishedRequest()
	req.Summary = "Custom summary"

	id, err := f.svc.Article.Save(context.Background(), "alice", req)
	require.NoError(t, err)
	assert.Equal(t, "Custom summary", f.articles.Articles[id].Summary)
}

func TestArticleService_SaveEditKeepsPublishDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Article.Save(ctx, "alice", publishedRequest("go"))
	require.NoError(t, err)
	published := f.articles.Articles[id].PublishDate

	for i := 1; i <= 3; i++ {
		f.now = f.now.Add(time.Hour)
		req := publishedRequest("go")
		req.ID = id
		req.Title = "Edited"
		req.CategoryID = "c2"

		gotID, err := f.svc.Article.Save(ctx, "alice", req)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)

		stored := f.articles.Articles[id]
		assert.Equal(t, published, stored.PublishDate, "publish date must not change on edit")
		assert.Equal(t, f.now.Truncate(time.Second), stored.EditTime)
		assert.False(t, stored.EditTime.Before(stored.PublishDate))
		assert.Equal(t, "Edited", stored.Title)
		assert.Equal(t, "SQL", stored.CategoryName)
	}
	assert.Len(t, f.articles.Articles, 1)
}

func TestArticleService_SaveEditTimeNeverBeforePublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Article.Save(ctx, "alice", publishedRequest())
	require.NoError(t, err)

	// Clock moved backwards
	f.now = f.now.Add(-time.Hour)
	req := publishedRequest()
	req.ID = id
	_, err = f.svc.Article.Save(ctx, "alice", req)
	require.NoError(t, err)

	stored := f.articles.Articles[id]
	assert.Equal(t, stored.PublishDate, stored.EditTime)
}

func TestArticleService_SaveUnknownIDCreatesNewArticle(t *testing.T) {
	f := newFixture(t)
	req := publishedRequest()
	req.ID = "does-not-exist"

	id, err := f.svc.Article.Save(context.Background(), "alice", req)
	require.NoError(t, err)
	assert.NotEqual(t, "does-not-exist", id)
	assert.Contains(t, f.articles.Articles, id)
}

func TestArticleService_SaveErrors(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		mutate    func(*models.SaveArticleRequest)
		is        func(error) bool
	}{
		{"no principal", "", nil, errs.IsUnauthenticated},
		{"unknown user", "mallory", nil, errs.IsNotFound},
		{"unknown category", "alice", func(r *models.SaveArticleRequest) { r.CategoryID = "nope" }, errs.IsNotFound},
		{"missing title", "alice", func(r *models.SaveArticleRequest) { r.Title = "" }, errs.IsValidation},
		{"invalid state", "alice", func(r *models.SaveArticleRequest) { r.State = 9 }, errs.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := publishedRequest("go")
			if tt.mutate != nil {
				tt.mutate(req)
			}

			_, err := f.svc.Article.Save(context.Background(), tt.principal, req)
			require.Error(t, err)
			assert.True(t, tt.is(err), "unexpected error kind: %v", err)
			assert.Empty(t, f.articles.Articles)
			assert.Empty(t, f.tags.Tags)
		})
	}
}

func TestArticleService_SaveRollsBackOnTagFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Article.Save(ctx, "alice", publishedRequest("go"))
	require.NoError(t, err)

	f.tags.CreateError = errors.New("tag insert failed")

	// Edit: article row and tags must both be left as they were
	req := publishedRequest("rust")
	req.ID = id
	req.Title = "Edited"
	_, err = f.svc.Article.Save(ctx, "alice", req)
	require.Error(t, err)
	assert.True(t, errs.IsTransactionFailed(err))

	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.True(t, e.Retryable())

	assert.Equal(t, "Hello", f.articles.Articles[id].Title)
	assert.Equal(t, []string{"go"}, f.tagNames(id))

	// Create: no article left behind
	_, err = f.svc.Article.Save(ctx, "alice", publishedRequest("rust"))
	require.Error(t, err)
	assert.Len(t, f.articles.Articles, 1)
	assert.Equal(t, 2, f.tx.Rollbacks)
}

func TestArticleService_ReconcileIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Article.Save(ctx, "alice", publishedRequest("go", "sql", "go", " "))
	require.NoError(t, err)
	first := append([]string(nil), f.tagNames(id)...)

	req := publishedRequest("go", "sql", "go", " ")
	req.ID = id
	_, err = f.svc.Article.Save(ctx, "alice", req)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "sql"}, first)
	assert.Equal(t, first, f.tagNames(id))
	assert.Len(t, f.tags.Tags, 2)
}

func TestArticleService_ReconcileReplacesSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Article.Save(ctx, "alice", publishedRequest("go", "sql"))
	require.NoError(t, err)

	req := publishedRequest("rust")
	req.ID = id
	_, err = f.svc.Article.Save(ctx, "alice", req)
	require.NoError(t, err)
	assert.Equal(t, []string{"rust"}, f.tagNames(id))

	req.DynamicTags = nil
	_, err = f.svc.Article.Save(ctx, "alice", req)
	require.NoError(t, err)
	assert.Empty(t, f.tagNames(id))
}

func TestArticleService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPublished("1", "2", "3", "4", "5")
	f.articles.Articles["6"] = &models.Article{ID: "6", State: models.StateDraft}
	f.articles.Articles["7"] = &models.Article{ID: "7", State: models.StateDeleted}

	tests := []struct {
		page  int
		count int
		want  []string
	}{
		{1, 2, []string{"5", "4"}},
		{2, 2, []string{"3", "2"}},
		{3, 2, []string{"1"}},
		{10, 2, []string{}},
		{1, 10, []string{"5", "4", "3", "2", "1"}},
	}

	for _, tt := range tests {
		articles, err := f.svc.Article.List(ctx, tt.page, tt.count, "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, articleIDs(articles), "page=%d count=%d", tt.page, tt.count)
		for _, a := range articles {
			assert.Empty(t, a.HTMLContent)
			assert.Empty(t, a.MDContent)
			assert.NotEmpty(t, a.Summary)
		}
	}
}

func TestArticleService_ListAttachesTagsAndFiltersCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPublished("1", "2", "3")
	f.articles.Articles["2"].CategoryName = "SQL"
	f.tags.Tags = append(f.tags.Tags, models.Tag{ID: "t1", TagName: "go", ArticleID: "3"})

	articles, err := f.svc.Article.List(ctx, 1, 10, "Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, articleIDs(articles))
	require.Len(t, articles[0].Tags, 1)
	assert.Equal(t, "go", articles[0].Tags[0].TagName)
	assert.Empty(t, articles[1].Tags)

	articles, err = f.svc.Article.List(ctx, 1, 10, "Nope")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestArticleService_ListRejectsBadPagination(t *testing.T) {
	f := newFixture(t)
	for _, tc := range [][2]int{{0, 10}, {1, 0}, {-1, 5}, {1, -5}, {1, 1000}} {
		_, err := f.svc.Article.List(context.Background(), tc[0], tc[1], "")
		assert.True(t, errs.IsValidation(err), "page=%d count=%d: %v", tc[0], tc[1], err)
	}
}

func TestArticleService_ListPageBeyondAnyOffsetIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.seedPublished("1", "2", "3")

	for _, count := range []int{1, 2, service.MaxPageSize} {
		articles, err := f.svc.Article.List(context.Background(), math.MaxInt, count, "")
		require.NoError(t, err, "count=%d", count)
		assert.NotNil(t, articles)
		assert.Empty(t, articles, "count=%d", count)
	}
	assert.Zero(t, f.articles.ListCalls, "no query should reach the store")

	// Largest page whose offset still fits is an ordinary empty page
	articles, err := f.svc.Article.List(context.Background(), math.MaxInt/2, 2, "")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestArticleService_ListAll(t *testing.T) {
	f := newFixture(t)
	f.seedPublished("1", "2")
	f.articles.Articles["3"] = &models.Article{ID: "3", State: models.StateDraft}

	articles, err := f.svc.Article.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, articleIDs(articles))
	assert.NotEmpty(t, articles[0].HTMLContent)
	assert.NotEmpty(t, articles[0].MDContent)

	empty := newFixture(t)
	articles, err = empty.svc.Article.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestArticleService_ViewIncrementsAndScrubs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPublished("1")
	f.tags.Tags = append(f.tags.Tags, models.Tag{ID: "t1", TagName: "go", ArticleID: "1"})

	first, err := f.svc.Article.View(ctx, "1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.PageView)

	second, err := f.svc.Article.View(ctx, "1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.PageView)
	assert.EqualValues(t, 2, f.articles.Articles["1"].PageView)

	assert.Empty(t, second.MDContent)
	assert.Empty(t, second.UserID)
	assert.Empty(t, second.Summary)
	assert.NotEmpty(t, second.HTMLContent)
	assert.Equal(t, "Alice", second.Nickname)
	require.Len(t, second.Tags, 1)

	// Stored row keeps the authoring fields
	assert.Equal(t, "alice", f.articles.Articles["1"].UserID)
	assert.NotEmpty(t, f.articles.Articles["1"].MDContent)
}

func TestArticleService_ViewWritesOnlyTheCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPublished("1")
	f.articles.UpdateError = errors.New("full row writes are not allowed here")

	article, err := f.svc.Article.View(ctx, "1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, article.PageView)
	assert.Zero(t, f.articles.UpdateCalls)
	assert.Equal(t, 1, f.articles.SetPageViewCalls)

	// A later edit keeps the counter
	f.articles.UpdateError = nil
	req := publishedRequest("go")
	req.ID = "1"
	req.Title = "Edited"
	_, err = f.svc.Article.Save(ctx, "alice", req)
	require.NoError(t, err)
	assert.Equal(t, "Edited", f.articles.Articles["1"].Title)
	assert.EqualValues(t, 1, f.articles.Articles["1"].PageView)
}

func TestArticleService_UnreachableDatabaseIsUpstream(t *testing.T) {
	edit := func(f *fixture) error {
		req := publishedRequest("go")
		req.ID = "1"
		_, err := f.svc.Article.Save(context.Background(), "alice", req)
		return err
	}
	remove := func(f *fixture) error {
		return f.svc.Article.SoftDelete(context.Background(), "1")
	}
	dialErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

	tests := []struct {
		name string
		call func(*fixture) error
		fail func(*fixture)
	}{
		{"save, begin fails", edit, func(f *fixture) { f.tx.BeginError = errs.NewUpstreamUnavailable("begin transaction", dialErr) }},
		{"delete, begin fails", remove, func(f *fixture) { f.tx.BeginError = errs.NewUpstreamUnavailable("begin transaction", dialErr) }},
		{"save, read in transaction fails", edit, func(f *fixture) { f.articles.GetError = dialErr }},
		{"delete, read in transaction fails", remove, func(f *fixture) { f.articles.GetError = dialErr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedPublished("1")
			tt.fail(f)

			err := tt.call(f)
			require.Error(t, err)
			assert.True(t, errs.IsUpstreamUnavailable(err), "unexpected error kind: %v", err)
			assert.False(t, errs.IsTransactionFailed(err))
			assert.Equal(t, http.StatusServiceUnavailable, errs.StatusCode(err))

			var e *errs.Error
			require.True(t, errors.As(err, &e))
			assert.False(t, e.Retryable())
			assert.Equal(t, models.StatePublished, f.articles.Articles["1"].State)
		})
	}
}

func TestArticleService_ViewNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Article.View(context.Background(), "missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestArticleService_SoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPublished("1", "2", "3")
	f.articles.Articles["3"].PageView = 42

	require.NoError(t, f.svc.Article.SoftDelete(ctx, "3"))

	articles, err := f.svc.Article.List(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, articleIDs(articles))

	all, err := f.svc.Article.ListAll(ctx)
	require.NoError(t, err)
	assert.NotContains(t, articleIDs(all), "3")

	deleted, err := f.svc.Article.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, models.StateDeleted, deleted.State)
	assert.Equal(t, "2", deleted.StateStr)
	assert.EqualValues(t, 42, deleted.PageView, "soft delete must not touch the view counter")
}

func TestArticleService_SoftDeleteBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPublished("1", "2", "3")

	require.NoError(t, f.svc.Article.SoftDelete(ctx, "1,2"))

	assert.Equal(t, models.StateDeleted, f.articles.Articles["1"].State)
	assert.Equal(t, models.StateDeleted, f.articles.Articles["2"].State)
	assert.Equal(t, models.StatePublished, f.articles.Articles["3"].State)
	assert.Zero(t, f.articles.Articles["1"].PageView)
	assert.Zero(t, f.articles.Articles["2"].PageView)
}

func TestArticleService_SoftDeleteBatchIsAtomic(t *testing.T) {
	f := newFixture(t)
	f.seedPublished("1", "2")

	err := f.svc.Article.SoftDelete(context.Background(), "1,missing,2")
	assert.True(t, errs.IsNotFound(err), "unexpected error: %v", err)

	assert.Equal(t, models.StatePublished, f.articles.Articles["1"].State)
	assert.Equal(t, models.StatePublished, f.articles.Articles["2"].State)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestArticleService_SoftDeleteRequiresIDs(t *testing.T) {
	f := newFixture(t)
	for _, ids := range []string{"", ",", " , "} {
		err := f.svc.Article.SoftDelete(context.Background(), ids)
		assert.True(t, errs.IsValidation(err), "ids=%q: %v", ids, err)
	}
}

func TestArticleService_ListServedFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t, withCache())
	ctx := context.Background()
	f.seedPublished("1", "2")

	list := func() []string {
		articles, err := f.svc.Article.List(ctx, 1, 10, "")
		require.NoError(t, err)
		return articleIDs(articles)
	}

	assert.Equal(t, []string{"2", "1"}, list())
	assert.Equal(t, []string{"2", "1"}, list())
	assert.Equal(t, 1, f.articles.ListCalls)

	_, err := f.svc.Article.View(ctx, "1")
	require.NoError(t, err)
	list()
	assert.Equal(t, 2, f.articles.ListCalls)

	require.NoError(t, f.svc.Article.SoftDelete(ctx, "2"))
	assert.Equal(t, []string{"1"}, list())
	assert.Equal(t, 3, f.articles.ListCalls)

	_, err = f.svc.Article.Save(ctx, "alice", publishedRequest())
	require.NoError(t, err)
	assert.Len(t, list(), 2)
	assert.Equal(t, 4, f.articles.ListCalls)
}

func TestArticleService_CountByState(t *testing.T) {
	f := newFixture(t)
	f.seedPublished("1", "2")
	f.articles.Articles["3"] = &models.Article{ID: "3", State: models.StateDraft}

	counts, err := f.svc.Article.CountByState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.StatePublished])
	assert.Equal(t, 1, counts[models.StateDraft])
	assert.Zero(t, counts[models.StateDeleted])
}
