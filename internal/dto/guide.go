package dto

// CreateGuideRequest carries a new guide's profile.
type CreateGuideRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// UpdateGuideRequest rewrites a guide's mutable fields.
type UpdateGuideRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=120"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"omitempty,max=32"`
	Active *bool  `json:"active" validate:"required"`
}

// CreatePersonalConstraintRequest blocks a guide on one date.
type CreatePersonalConstraintRequest struct {
	GuideID int64  `json:"guide_id" validate:"required,gt=0"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Note    string `json:"note" validate:"omitempty,max=255"`
}

// CreateFixedConstraintRequest blocks a guide on a recurring weekday
// (0=Sunday .. 6=Saturday).
type CreateFixedConstraintRequest struct {
	GuideID int64  `json:"guide_id" validate:"required,gt=0"`
	Weekday *int   `json:"weekday" validate:"required,gte=0,lte=6"`
	Note    string `json:"note" validate:"omitempty,max=255"`
}

// CreateVacationRequest opens an absence request in pending status.
type CreateVacationRequest struct {
	GuideID   int64  `json:"guide_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Note      string `json:"note" validate:"omitempty,max=255"`
}

// UpdateVacationStatusRequest moves a request through the workflow.
type UpdateVacationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// CreateRuleRequest adds a coordinator rule. SecondGuideID is required for
// pair rules and must stay empty otherwise.
type CreateRuleRequest struct {
	Kind          string `json:"kind" validate:"required"`
	GuideID       int64  `json:"guide_id" validate:"required,gt=0"`
	SecondGuideID *int64 `json:"second_guide_id" validate:"omitempty,gt=0"`
	Note          string `json:"note" validate:"omitempty,max=255"`
}

// SetWeekendStatusRequest flags a Friday's weekend as closed or open.
type SetWeekendStatusRequest struct {
	FridayDate string `json:"friday_date" validate:"required,datetime=2006-01-02"`
	Closed     *bool  `json:"closed" validate:"required"`
}
