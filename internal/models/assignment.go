package models

import "time"

// ScheduleRow is a persisted duty assignment, one row per date.
// Manual rows are authoritative and never rewritten by the engine.
type ScheduleRow struct {
	ID         int64     `db:"id" json:"id"`
	Date       time.Time `db:"date" json:"date"`
	Guide1ID   *int64    `db:"guide1_id" json:"guide1_id,omitempty"`
	Guide1Role string    `db:"guide1_role" json:"guide1_role,omitempty"`
	Guide2ID   *int64    `db:"guide2_id" json:"guide2_id,omitempty"`
	Guide2Role string    `db:"guide2_role" json:"guide2_role,omitempty"`
	IsManual   bool      `db:"is_manual" json:"is_manual"`
	Rationale  string    `db:"rationale" json:"rationale"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
