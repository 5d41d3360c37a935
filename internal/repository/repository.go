package repository

import (
	"context"
	"database/sql"

	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/models"
)

// Lookups return (nil, nil) when the record does not exist.

// UserRepository defines the interface for author account lookups
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// CategoryRepository defines the interface for category lookups
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Upsert(ctx context.Context, category *models.Category) error
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	// SetPageView writes the view counter only
	SetPageView(ctx context.Context, id string, views int64) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, q models.ListQuery) ([]*models.Article, error)
	FindAllByState(ctx context.Context, state models.ArticleState) ([]*models.Article, error)
	StreamByState(ctx context.Context, state models.ArticleState, callback func(*models.Article) error) error
	CountByState(ctx context.Context) (map[models.ArticleState]int, error)
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	DeleteByArticleID(ctx context.Context, articleID string) error
	NameExists(ctx context.Context, name string) (bool, error)
	ListByArticleID(ctx context.Context, articleID string) ([]models.Tag, error)
	ListAll(ctx context.Context) ([]models.Tag, error)
}

// ViewEventRepository reads and appends the raw visit log
type ViewEventRepository interface {
	Record(ctx context.Context, event models.ViewEvent) error
	// DailyCounts groups events by date and returns the most recent
	// limit groups, newest first.
	DailyCounts(ctx context.Context, limit int) ([]models.DailyCount, error)
}

// Transactor runs a unit of work against repositories bound to one transaction
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repositories) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Category  CategoryRepository
	Article   ArticleRepository
	Tag       TagRepository
	ViewEvent ViewEventRepository
	Tx        Transactor
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	repos := bind(db.DB)
	repos.Tx = &pgTransactor{db: db}
	return repos
}

// bind builds the table repositories on top of q
func bind(q database.Querier) *Repositories {
	return &Repositories{
		User:      NewUserRepo(q),
		Category:  NewCategoryRepo(q),
		Article:   NewArticleRepo(q),
		Tag:       NewTagRepo(q),
		ViewEvent: NewViewEventRepo(q),
	}
}

// pgTransactor opens a Postgres transaction per unit of work
type pgTransactor struct {
	db *database.DB
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(tx *Repositories) error) error {
	return t.db.WithTx(ctx, func(tx *sql.Tx) error {
		repos := bind(tx)
		repos.Tx = joinedTx{repos: repos}
		return fn(repos)
	})
}

// joinedTx lets code that already runs inside a transaction call WithinTx again
type joinedTx struct {
	repos *Repositories
}

func (j joinedTx) WithinTx(ctx context.Context, fn func(tx *Repositories) error) error {
	return fn(j.repos)
}
