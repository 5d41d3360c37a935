package repository

import (
	"context"
	"database/sql"

	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db database.Querier
}

// NewUserRepo creates a new user repository
func NewUserRepo(db database.Querier) UserRepository {
	return &userRepo{db: db}
}

// GetByUsername retrieves an author account
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx,
		"SELECT username, nickname, created_at FROM users WHERE username = $1", username,
	).Scan(&user.Username, &user.Nickname, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert inserts a user or updates the nickname of an existing one
func (r *userRepo) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, nickname)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET nickname = EXCLUDED.nickname
	`
	_, err := r.db.ExecContext(ctx, query, user.Username, user.Nickname)
	return err
}
