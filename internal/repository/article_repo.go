package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/models"
)

const articleColumns = `id, title, html_content, md_content, summary, category_id, cate_name,
	user_id, nickname, state, state_str, publish_date, edit_time, page_view`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db database.Querier
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db database.Querier) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.HTMLContent, article.MDContent, article.Summary,
		article.CategoryID, article.CategoryName, article.UserID, article.Nickname,
		article.State, article.StateStr, article.PublishDate, article.EditTime, article.PageView,
	)
	return err
}

// Update overwrites the authored columns of an existing article.
// publish_date and page_view are never written here.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET
			title = $1, html_content = $2, md_content = $3, summary = $4,
			category_id = $5, cate_name = $6, user_id = $7, nickname = $8,
			state = $9, state_str = $10, edit_time = $11
		WHERE id = $12
	`
	res, err := r.db.ExecContext(ctx, query,
		article.Title, article.HTMLContent, article.MDContent, article.Summary,
		article.CategoryID, article.CategoryName, article.UserID, article.Nickname,
		article.State, article.StateStr, article.EditTime,
		article.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(res, article.ID)
}

// SetPageView stores views as the article's counter
func (r *articleRepo) SetPageView(ctx context.Context, id string, views int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE articles SET page_view = $1 WHERE id = $2", views, id)
	if err != nil {
		return err
	}
	return expectRow(res, id)
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("article %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// List returns one page of articles in a state, newest id first
func (r *articleRepo) List(ctx context.Context, q models.ListQuery) ([]*models.Article, error) {
	var (
		where = []string{"state = $1"}
		args  = []any{q.State}
	)
	if q.CategoryName != "" {
		args = append(args, q.CategoryName)
		where = append(where, fmt.Sprintf("cate_name = $%d", len(args)))
	}
	args = append(args, q.Limit, q.Offset)

	query := fmt.Sprintf(
		`SELECT %s FROM articles WHERE %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		articleColumns, strings.Join(where, " AND "), len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0, q.Limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// FindAllByState returns every article in a state, newest id first
func (r *articleRepo) FindAllByState(ctx context.Context, state models.ArticleState) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.StreamByState(ctx, state, func(a *models.Article) error {
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// StreamByState streams articles in a state for export
func (r *articleRepo) StreamByState(ctx context.Context, state models.ArticleState, callback func(*models.Article) error) error {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE state = $1 ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, state)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(article); err != nil {
			return err
		}
	}

	return rows.Err()
}

// CountByState returns the number of articles in each state
func (r *articleRepo) CountByState(ctx context.Context) (map[models.ArticleState]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT state, COUNT(*) FROM articles GROUP BY state")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ArticleState]int)
	for rows.Next() {
		var state models.ArticleState
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		counts[state] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.HTMLContent, &a.MDContent, &a.Summary, &a.CategoryID, &a.CategoryName,
		&a.UserID, &a.Nickname, &a.State, &a.StateStr, &a.PublishDate, &a.EditTime, &a.PageView,
	)
	if err != nil {
		return nil, err
	}
	a.PublishDate = a.PublishDate.UTC()
	a.EditTime = a.EditTime.UTC()
	return &a, nil
}
