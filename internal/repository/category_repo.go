package repository

import (
	"context"
	"database/sql"

	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db database.Querier
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db database.Querier) CategoryRepository {
	return &categoryRepo{db: db}
}

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, cate_name FROM categories WHERE id = $1", id).Scan(&c.ID, &c.CateName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name
func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, cate_name FROM categories ORDER BY cate_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.CateName); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Upsert inserts a category or renames an existing one.
// Articles keep the name they copied at save time.
func (r *categoryRepo) Upsert(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, cate_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET cate_name = EXCLUDED.cate_name
	`
	_, err := r.db.ExecContext(ctx, query, category.ID, category.CateName)
	return err
}
