package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adilevy/guide-roster-api/internal/models"
)

// WeekendRepository manages closed-weekend flags, keyed by Friday date.
type WeekendRepository struct {
	db *sqlx.DB
}

// NewWeekendRepository constructs a WeekendRepository.
func NewWeekendRepository(db *sqlx.DB) *WeekendRepository {
	return &WeekendRepository{db: db}
}

// ListInRange returns weekend flags for Fridays inside [from, to]. The
// range should extend a day before the month so a Saturday on the 1st can
// inherit its Friday.
func (r *WeekendRepository) ListInRange(ctx context.Context, from, to time.Time) ([]models.WeekendStatus, error) {
	const query = `
		SELECT id, friday_date, closed, created_at, updated_at
		FROM weekend_statuses
		WHERE friday_date >= $1 AND friday_date <= $2
		ORDER BY friday_date ASC`
	var weekends []models.WeekendStatus
	if err := r.db.SelectContext(ctx, &weekends, query, from, to); err != nil {
		return nil, fmt.Errorf("list weekend statuses: %w", err)
	}
	return weekends, nil
}

// Upsert sets the closed flag for one Friday.
func (r *WeekendRepository) Upsert(ctx context.Context, ws *models.WeekendStatus) error {
	const query = `
		INSERT INTO weekend_statuses (friday_date, closed, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (friday_date) DO UPDATE
		SET closed = EXCLUDED.closed, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowxContext(ctx, query, ws.FridayDate, ws.Closed, time.Now().UTC()).
		Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
}
