package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adilevy/guide-roster-api/internal/models"
)

// ConstraintRepository manages personal and fixed scheduling constraints.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository constructs a ConstraintRepository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// ListPersonalInRange returns personal constraints with dates inside
// [from, to] inclusive.
func (r *ConstraintRepository) ListPersonalInRange(ctx context.Context, from, to time.Time) ([]models.PersonalConstraint, error) {
	const query = `
		SELECT id, guide_id, date, note, created_at
		FROM personal_constraints
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, guide_id ASC`
	var constraints []models.PersonalConstraint
	if err := r.db.SelectContext(ctx, &constraints, query, from, to); err != nil {
		return nil, fmt.Errorf("list personal constraints: %w", err)
	}
	return constraints, nil
}

// ListPersonalByGuide returns one guide's personal constraints.
func (r *ConstraintRepository) ListPersonalByGuide(ctx context.Context, guideID int64) ([]models.PersonalConstraint, error) {
	const query = `
		SELECT id, guide_id, date, note, created_at
		FROM personal_constraints
		WHERE guide_id = $1
		ORDER BY date ASC`
	var constraints []models.PersonalConstraint
	if err := r.db.SelectContext(ctx, &constraints, query, guideID); err != nil {
		return nil, fmt.Errorf("list personal constraints by guide: %w", err)
	}
	return constraints, nil
}

// CreatePersonal inserts a single-date block.
func (r *ConstraintRepository) CreatePersonal(ctx context.Context, c *models.PersonalConstraint) error {
	const query = `
		INSERT INTO personal_constraints (guide_id, date, note, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, c.GuideID, c.Date, c.Note, time.Now().UTC()).
		Scan(&c.ID, &c.CreatedAt)
}

// DeletePersonal removes a single-date block.
func (r *ConstraintRepository) DeletePersonal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_constraints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete personal constraint: %w", err)
	}
	return requireRow(res)
}

// ListFixed returns every recurring weekday block.
func (r *ConstraintRepository) ListFixed(ctx context.Context) ([]models.FixedConstraint, error) {
	const query = `
		SELECT id, guide_id, weekday, note, created_at
		FROM fixed_constraints
		ORDER BY guide_id ASC, weekday ASC`
	var constraints []models.FixedConstraint
	if err := r.db.SelectContext(ctx, &constraints, query); err != nil {
		return nil, fmt.Errorf("list fixed constraints: %w", err)
	}
	return constraints, nil
}

// CreateFixed inserts a recurring weekday block.
func (r *ConstraintRepository) CreateFixed(ctx context.Context, c *models.FixedConstraint) error {
	const query = `
		INSERT INTO fixed_constraints (guide_id, weekday, note, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, c.GuideID, c.Weekday, c.Note, time.Now().UTC()).
		Scan(&c.ID, &c.CreatedAt)
}

// DeleteFixed removes a recurring weekday block.
func (r *ConstraintRepository) DeleteFixed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fixed_constraints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fixed constraint: %w", err)
	}
	return requireRow(res)
}
