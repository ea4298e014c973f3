package models

import "time"

// Guide represents a staff member eligible for duty slots.
// Standby eligibility is not stored here; it is derived from coordinator
// rules when a scheduling snapshot is built.
type Guide struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
