package repository

import (
	"context"

	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/models"
)

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db database.Querier
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db database.Querier) TagRepository {
	return &tagRepo{db: db}
}

// Create inserts a new tag row
func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tags (id, tag_name, article_id) VALUES ($1, $2, $3)",
		tag.ID, tag.TagName, tag.ArticleID,
	)
	return err
}

// DeleteByArticleID removes every tag owned by an article
func (r *tagRepo) DeleteByArticleID(ctx context.Context, articleID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM tags WHERE article_id = $1", articleID)
	return err
}

// NameExists checks if any article owns a tag with exactly this name
func (r *tagRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM tags WHERE tag_name = $1)", name).Scan(&exists)
	return exists, err
}

// ListByArticleID returns the tags of one article
func (r *tagRepo) ListByArticleID(ctx context.Context, articleID string) ([]models.Tag, error) {
	return r.query(ctx, "SELECT id, tag_name, article_id FROM tags WHERE article_id = $1 ORDER BY tag_name", articleID)
}

// ListAll returns every tag row
func (r *tagRepo) ListAll(ctx context.Context) ([]models.Tag, error) {
	return r.query(ctx, "SELECT id, tag_name, article_id FROM tags ORDER BY tag_name, article_id")
}

func (r *tagRepo) query(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.TagName, &tag.ArticleID); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
