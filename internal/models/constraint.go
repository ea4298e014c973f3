package models

import "time"

// PersonalConstraint blocks a guide on one specific date.
type PersonalConstraint struct {
	ID        int64     `db:"id" json:"id"`
	GuideID   int64     `db:"guide_id" json:"guide_id"`
	Date      time.Time `db:"date" json:"date"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FixedConstraint blocks a guide on a recurring weekday (0=Sunday..6=Saturday).
type FixedConstraint struct {
	ID        int64     `db:"id" json:"id"`
	GuideID   int64     `db:"guide_id" json:"guide_id"`
	Weekday   int       `db:"weekday" json:"weekday"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Vacation statuses. Only approved vacations block scheduling.
const (
	VacationPending  = "pending"
	VacationApproved = "approved"
	VacationRejected = "rejected"
)

// Vacation is a date-range absence request.
type Vacation struct {
	ID        int64     `db:"id" json:"id"`
	GuideID   int64     `db:"guide_id" json:"guide_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Status    string    `db:"status" json:"status"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Approved reports whether the vacation blocks scheduling.
func (v Vacation) Approved() bool {
	return v.Status == VacationApproved
}

// CoordinatorRule is an administrator override affecting automation.
// Kind values are validated against the roster rule-kind enum before a
// snapshot is built; SecondGuideID is set only for pair rules.
type CoordinatorRule struct {
	ID            int64     `db:"id" json:"id"`
	Kind          string    `db:"kind" json:"kind"`
	GuideID       int64     `db:"guide_id" json:"guide_id"`
	SecondGuideID *int64    `db:"second_guide_id" json:"second_guide_id,omitempty"`
	Active        bool      `db:"active" json:"active"`
	Note          string    `db:"note" json:"note"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// WeekendStatus flags a Friday (and its paired Saturday) as closed.
// Saturday never carries an independent flag.
type WeekendStatus struct {
	ID         int64     `db:"id" json:"id"`
	FridayDate time.Time `db:"friday_date" json:"friday_date"`
	Closed     bool      `db:"closed" json:"closed"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
