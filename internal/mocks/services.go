package mocks

import (
	"context"
	"net/http"

	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService.
// Unset funcs return zero values.
type MockArticleService struct {
	SaveFunc         func(ctx context.Context, principal string, req *models.SaveArticleRequest) (string, error)
	ViewFunc         func(ctx context.Context, id string) (*models.Article, error)
	SoftDeleteFunc   func(ctx context.Context, ids string) error
	GetFunc          func(ctx context.Context, id string) (*models.Article, error)
	ListFunc         func(ctx context.Context, page, count int, categoryName string) ([]*models.Article, error)
	ListAllFunc      func(ctx context.Context) ([]*models.Article, error)
	CountByStateFunc func(ctx context.Context) (map[models.ArticleState]int, error)
	SavedPrincipals  []string
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) Save(ctx context.Context, principal string, req *models.SaveArticleRequest) (string, error) {
	m.SavedPrincipals = append(m.SavedPrincipals, principal)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, principal, req)
	}
	return "", nil
}

func (m *MockArticleService) View(ctx context.Context, id string) (*models.Article, error) {
	if m.ViewFunc != nil {
		return m.ViewFunc(ctx, id)
	}
	return &models.Article{ID: id}, nil
}

func (m *MockArticleService) SoftDelete(ctx context.Context, ids string) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, ids)
	}
	return nil
}

func (m *MockArticleService) Get(ctx context.Context, id string) (*models.Article, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.Article{ID: id}, nil
}

func (m *MockArticleService) List(ctx context.Context, page, count int, categoryName string) ([]*models.Article, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page, count, categoryName)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) ListAll(ctx context.Context) ([]*models.Article, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) CountByState(ctx context.Context) (map[models.ArticleState]int, error) {
	if m.CountByStateFunc != nil {
		return m.CountByStateFunc(ctx)
	}
	return map[models.ArticleState]int{}, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	Formats            []string
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	m.Formats = append(m.Formats, format)
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	return nil
}
