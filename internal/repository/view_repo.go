package repository

import (
	"context"
	"time"

	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/models"
)

// viewEventRepo keeps the visit log in Postgres
type viewEventRepo struct {
	db database.Querier
}

// NewViewEventRepo creates a Postgres backed view event repository
func NewViewEventRepo(db database.Querier) ViewEventRepository {
	return &viewEventRepo{db: db}
}

// Record appends one visit
func (r *viewEventRepo) Record(ctx context.Context, event models.ViewEvent) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO view_events (visit_date) VALUES ($1)", event.Date)
	return err
}

// DailyCounts groups visits by date, newest first
func (r *viewEventRepo) DailyCounts(ctx context.Context, limit int) ([]models.DailyCount, error) {
	query := `
		SELECT visit_date, COUNT(*)
		FROM view_events
		GROUP BY visit_date
		ORDER BY visit_date DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.DailyCount, 0, limit)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts = append(counts, models.DailyCount{Date: day.Format(models.DayLayout), Count: count})
	}
	return counts, rows.Err()
}
