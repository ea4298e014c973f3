package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adilevy/guide-roster-api/internal/models"
)

// ScheduleRepository stores resolved duty assignments, one row per date.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, date, guide1_id, guide1_role, guide2_id, guide2_role, is_manual, rationale, created_at, updated_at`

// ListInRange returns schedule rows for dates inside [from, to] inclusive,
// ordered by date.
func (r *ScheduleRepository) ListInRange(ctx context.Context, from, to time.Time) ([]models.ScheduleRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_days WHERE date >= $1 AND date <= $2 ORDER BY date ASC`, scheduleColumns)
	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list schedule rows: %w", err)
	}
	return rows, nil
}

// FindByDate fetches a single day's row.
func (r *ScheduleRepository) FindByDate(ctx context.Context, date time.Time) (*models.ScheduleRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_days WHERE date = $1`, scheduleColumns)
	var row models.ScheduleRow
	if err := r.db.GetContext(ctx, &row, query, date); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertGenerated writes an engine-produced row. A manual row on the same
// date is authoritative and survives untouched; the conflict clause only
// rewrites non-manual rows.
func (r *ScheduleRepository) UpsertGenerated(ctx context.Context, row *models.ScheduleRow) error {
	const query = `
		INSERT INTO schedule_days (date, guide1_id, guide1_role, guide2_id, guide2_role, is_manual, rationale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7, $7)
		ON CONFLICT (date) DO UPDATE
		SET guide1_id = EXCLUDED.guide1_id,
		    guide1_role = EXCLUDED.guide1_role,
		    guide2_id = EXCLUDED.guide2_id,
		    guide2_role = EXCLUDED.guide2_role,
		    rationale = EXCLUDED.rationale,
		    updated_at = EXCLUDED.updated_at
		WHERE schedule_days.is_manual = FALSE`
	if _, err := r.db.ExecContext(ctx, query, row.Date, row.Guide1ID, row.Guide1Role, row.Guide2ID, row.Guide2Role, row.Rationale, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert schedule row: %w", err)
	}
	return nil
}

// SaveManual writes a coordinator override, replacing whatever occupied
// the date.
func (r *ScheduleRepository) SaveManual(ctx context.Context, row *models.ScheduleRow) error {
	const query = `
		INSERT INTO schedule_days (date, guide1_id, guide1_role, guide2_id, guide2_role, is_manual, rationale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $7)
		ON CONFLICT (date) DO UPDATE
		SET guide1_id = EXCLUDED.guide1_id,
		    guide1_role = EXCLUDED.guide1_role,
		    guide2_id = EXCLUDED.guide2_id,
		    guide2_role = EXCLUDED.guide2_role,
		    is_manual = TRUE,
		    rationale = EXCLUDED.rationale,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, row.Date, row.Guide1ID, row.Guide1Role, row.Guide2ID, row.Guide2Role, row.Rationale, time.Now().UTC()); err != nil {
		return fmt.Errorf("save manual schedule row: %w", err)
	}
	return nil
}

// ClearManual demotes a manual row so the engine may rewrite the date.
func (r *ScheduleRepository) ClearManual(ctx context.Context, date time.Time) error {
	const query = `UPDATE schedule_days SET is_manual = FALSE, updated_at = $1 WHERE date = $2 AND is_manual = TRUE`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), date)
	if err != nil {
		return fmt.Errorf("clear manual flag: %w", err)
	}
	return requireRow(res)
}
