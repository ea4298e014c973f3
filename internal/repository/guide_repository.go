package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adilevy/guide-roster-api/internal/models"
)

// GuideFilter narrows guide listings.
type GuideFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// GuideRepository manages persistence for guides.
type GuideRepository struct {
	db *sqlx.DB
}

// NewGuideRepository constructs a GuideRepository.
func NewGuideRepository(db *sqlx.DB) *GuideRepository {
	return &GuideRepository{db: db}
}

// List returns guides matching filters along with total count.
func (r *GuideRepository) List(ctx context.Context, filter GuideFilter) ([]models.Guide, int, error) {
	base := "FROM guides WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, email, phone, active, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, offset)
	var guides []models.Guide
	if err := r.db.SelectContext(ctx, &guides, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list guides: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count guides: %w", err)
	}

	return guides, total, nil
}

// ListActive returns every active guide ordered by ID.
func (r *GuideRepository) ListActive(ctx context.Context) ([]models.Guide, error) {
	const query = `SELECT id, name, email, phone, active, created_at, updated_at FROM guides WHERE active = TRUE ORDER BY id ASC`
	var guides []models.Guide
	if err := r.db.SelectContext(ctx, &guides, query); err != nil {
		return nil, fmt.Errorf("list active guides: %w", err)
	}
	return guides, nil
}

// FindByID fetches a guide by ID.
func (r *GuideRepository) FindByID(ctx context.Context, id int64) (*models.Guide, error) {
	const query = `SELECT id, name, email, phone, active, created_at, updated_at FROM guides WHERE id = $1`
	var guide models.Guide
	if err := r.db.GetContext(ctx, &guide, query, id); err != nil {
		return nil, err
	}
	return &guide, nil
}

// Create inserts a guide and returns the stored row.
func (r *GuideRepository) Create(ctx context.Context, guide *models.Guide) error {
	const query = `
		INSERT INTO guides (name, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at`
	now := time.Now().UTC()
	return r.db.QueryRowxContext(ctx, query, guide.Name, guide.Email, guide.Phone, guide.Active, now).
		Scan(&guide.ID, &guide.CreatedAt, &guide.UpdatedAt)
}

// Update rewrites a guide's mutable fields.
func (r *GuideRepository) Update(ctx context.Context, guide *models.Guide) error {
	const query = `
		UPDATE guides
		SET name = $1, email = $2, phone = $3, active = $4, updated_at = $5
		WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, guide.Name, guide.Email, guide.Phone, guide.Active, time.Now().UTC(), guide.ID)
	if err != nil {
		return fmt.Errorf("update guide: %w", err)
	}
	return requireRow(res)
}

// Deactivate disables a guide without losing its schedule history.
func (r *GuideRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE guides SET active = FALSE, updated_at = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate guide: %w", err)
	}
	return requireRow(res)
}
