package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
)

// NewMockRepositories wires in-memory repositories that share one transactor
func NewMockRepositories() (*repository.Repositories, *MockArticleRepository, *MockTagRepository) {
	articles := NewMockArticleRepository()
	tags := NewMockTagRepository()
	repos := &repository.Repositories{
		User:      NewMockUserRepository(),
		Category:  NewMockCategoryRepository(),
		Article:   articles,
		Tag:       tags,
		ViewEvent: NewMockViewEventRepository(),
	}
	repos.Tx = &MockTransactor{Repos: repos, Articles: articles, Tags: tags}
	return repos, articles, tags
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users    map[string]*models.User
	GetError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Users[username], nil
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	m.Users[user.Username] = user
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories map[string]*models.Category
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[string]*models.Category)}
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return m.Categories[id], nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].CateName < categories[j].CateName })
	return categories, nil
}

func (m *MockCategoryRepository) Upsert(ctx context.Context, category *models.Category) error {
	m.Categories[category.ID] = category
	return nil
}

// MockArticleRepository is a mock implementation of ArticleRepository.
// It stores copies so callers cannot mutate stored rows by accident.
type MockArticleRepository struct {
	mu               sync.Mutex
	Articles         map[string]*models.Article
	CreateError      error
	UpdateError      error
	GetError         error
	ListCalls        int
	UpdateCalls      int
	SetPageViewCalls int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[string]*models.Article)}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Articles[article.ID] = copyArticle(article)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	stored, ok := m.Articles[article.ID]
	if !ok {
		return sql.ErrNoRows
	}
	updated := copyArticle(article)
	updated.PublishDate = stored.PublishDate
	updated.PageView = stored.PageView
	m.Articles[article.ID] = updated
	return nil
}

func (m *MockArticleRepository) SetPageView(ctx context.Context, id string, views int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPageViewCalls++
	stored, ok := m.Articles[id]
	if !ok {
		return sql.ErrNoRows
	}
	stored.PageView = views
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	if a, ok := m.Articles[id]; ok {
		return copyArticle(a), nil
	}
	return nil, nil
}

func (m *MockArticleRepository) List(ctx context.Context, q models.ListQuery) ([]*models.Article, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	all, _ := m.FindAllByState(ctx, q.State)
	var filtered []*models.Article
	for _, a := range all {
		if q.CategoryName != "" && a.CategoryName != q.CategoryName {
			continue
		}
		filtered = append(filtered, a)
	}

	result := []*models.Article{}
	if q.Offset >= len(filtered) {
		return result, nil
	}
	end := q.Offset + q.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return append(result, filtered[q.Offset:end]...), nil
}

func (m *MockArticleRepository) FindAllByState(ctx context.Context, state models.ArticleState) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var articles []*models.Article
	for _, a := range m.Articles {
		if a.State == state {
			articles = append(articles, copyArticle(a))
		}
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID > articles[j].ID })
	return articles, nil
}

func (m *MockArticleRepository) StreamByState(ctx context.Context, state models.ArticleState, callback func(*models.Article) error) error {
	articles, _ := m.FindAllByState(ctx, state)
	for _, a := range articles {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockArticleRepository) CountByState(ctx context.Context) (map[models.ArticleState]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.ArticleState]int)
	for _, a := range m.Articles {
		counts[a.State]++
	}
	return counts, nil
}

func (m *MockArticleRepository) snapshot() map[string]*models.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[string]*models.Article, len(m.Articles))
	for id, a := range m.Articles {
		snap[id] = copyArticle(a)
	}
	return snap
}

func (m *MockArticleRepository) restore(snap map[string]*models.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Articles = snap
}

func copyArticle(a *models.Article) *models.Article {
	c := *a
	c.Tags = nil
	c.DynamicTags = nil
	return &c
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mu          sync.Mutex
	Tags        []models.Tag
	CreateError error
	CreateCalls int
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{}
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Tags = append(m.Tags, *tag)
	return nil
}

func (m *MockTagRepository) DeleteByArticleID(ctx context.Context, articleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Tags[:0]
	for _, t := range m.Tags {
		if t.ArticleID != articleID {
			kept = append(kept, t)
		}
	}
	m.Tags = kept
	return nil
}

func (m *MockTagRepository) NameExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tags {
		if t.TagName == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTagRepository) ListByArticleID(ctx context.Context, articleID string) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := []models.Tag{}
	for _, t := range m.Tags {
		if t.ArticleID == articleID {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (m *MockTagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Tag{}, m.Tags...), nil
}

func (m *MockTagRepository) snapshot() []models.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Tag(nil), m.Tags...)
}

func (m *MockTagRepository) restore(snap []models.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tags = snap
}

// MockViewEventRepository is a mock implementation of ViewEventRepository
type MockViewEventRepository struct {
	mu     sync.Mutex
	Events []models.ViewEvent
}

func NewMockViewEventRepository() *MockViewEventRepository {
	return &MockViewEventRepository{}
}

func (m *MockViewEventRepository) Record(ctx context.Context, event models.ViewEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockViewEventRepository) DailyCounts(ctx context.Context, limit int) ([]models.DailyCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byDate := make(map[string]int)
	for _, e := range m.Events {
		byDate[e.Date]++
	}
	counts := make([]models.DailyCount, 0, len(byDate))
	for date, n := range byDate {
		counts = append(counts, models.DailyCount{Date: date, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date > counts[j].Date })
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// MockTransactor snapshots articles and tags and restores them when the
// unit of work fails. Units of work are serialized. BeginError fails the
// call before fn runs.
type MockTransactor struct {
	mu         sync.Mutex
	Repos      *repository.Repositories
	Articles   *MockArticleRepository
	Tags       *MockTagRepository
	BeginError error
	Commits    int
	Rollbacks  int
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(tx *repository.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BeginError != nil {
		return m.BeginError
	}

	articles := m.Articles.snapshot()
	tags := m.Tags.snapshot()

	if err := fn(m.Repos); err != nil {
		m.Articles.restore(articles)
		m.Tags.restore(tags)
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}
