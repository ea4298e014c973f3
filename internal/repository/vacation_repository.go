package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adilevy/guide-roster-api/internal/models"
)

// VacationRepository manages absence requests.
type VacationRepository struct {
	db *sqlx.DB
}

// NewVacationRepository constructs a VacationRepository.
func NewVacationRepository(db *sqlx.DB) *VacationRepository {
	return &VacationRepository{db: db}
}

// ListOverlapping returns vacations whose range intersects [from, to].
// All statuses are returned; snapshot building filters on approval.
func (r *VacationRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Vacation, error) {
	const query = `
		SELECT id, guide_id, start_date, end_date, status, note, created_at
		FROM vacations
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date ASC, guide_id ASC`
	var vacations []models.Vacation
	if err := r.db.SelectContext(ctx, &vacations, query, from, to); err != nil {
		return nil, fmt.Errorf("list vacations: %w", err)
	}
	return vacations, nil
}

// ListByGuide returns one guide's vacation history.
func (r *VacationRepository) ListByGuide(ctx context.Context, guideID int64) ([]models.Vacation, error) {
	const query = `
		SELECT id, guide_id, start_date, end_date, status, note, created_at
		FROM vacations
		WHERE guide_id = $1
		ORDER BY start_date DESC`
	var vacations []models.Vacation
	if err := r.db.SelectContext(ctx, &vacations, query, guideID); err != nil {
		return nil, fmt.Errorf("list vacations by guide: %w", err)
	}
	return vacations, nil
}

// Create inserts a vacation request in pending status.
func (r *VacationRepository) Create(ctx context.Context, v *models.Vacation) error {
	const query = `
		INSERT INTO vacations (guide_id, start_date, end_date, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, v.GuideID, v.StartDate, v.EndDate, v.Status, v.Note, time.Now().UTC()).
		Scan(&v.ID, &v.CreatedAt)
}

// UpdateStatus moves a request through the approval workflow.
func (r *VacationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vacations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update vacation status: %w", err)
	}
	return requireRow(res)
}

// Delete removes a vacation request.
func (r *VacationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vacations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vacation: %w", err)
	}
	return requireRow(res)
}
