package dto

import (
	"time"

	"github.com/adilevy/guide-roster-api/internal/roster"
)

// SlotPayload is one (guide, role) pair inside a day.
type SlotPayload struct {
	GuideID int64  `json:"guide_id" validate:"required,gt=0"`
	Role    string `json:"role" validate:"required"`
}

// DayPayload is one proposed day inside a validation request.
type DayPayload struct {
	Date        string        `json:"date" validate:"required,datetime=2006-01-02"`
	Assignments []SlotPayload `json:"assignments" validate:"max=4,dive"`
	Rationale   string        `json:"rationale"`
}

// ValidateProposalRequest submits a candidate month for sanitization. Raw
// generator output goes through RawPayload untouched; structured payloads
// use Days.
type ValidateProposalRequest struct {
	Days       []DayPayload `json:"days" validate:"omitempty,dive"`
	RawPayload string       `json:"raw_payload"`
	Persist    bool         `json:"persist"`
}

// ManualAssignmentRequest pins a coordinator override onto a date.
type ManualAssignmentRequest struct {
	Date        string        `json:"date" validate:"required,datetime=2006-01-02"`
	Assignments []SlotPayload `json:"assignments" validate:"required,min=1,max=2,dive"`
	Rationale   string        `json:"rationale" validate:"omitempty,max=255"`
}

// DayResponse is one resolved day in API responses.
type DayResponse struct {
	Date        string        `json:"date"`
	DayType     string        `json:"day_type"`
	Assignments []SlotPayload `json:"assignments"`
	IsManual    bool          `json:"is_manual"`
	Rationale   string        `json:"rationale,omitempty"`
}

// WarningResponse is a typed validation finding.
type WarningResponse struct {
	Date    string `json:"date,omitempty"`
	Kind    string `json:"kind"`
	GuideID int64  `json:"guide_id,omitempty"`
	Message string `json:"message"`
}

// RosterRunResponse is returned by assemble and validate operations.
type RosterRunResponse struct {
	RunID     string            `json:"run_id"`
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Days      []DayResponse     `json:"days"`
	Warnings  []WarningResponse `json:"warnings"`
	Stats     roster.Stats      `json:"stats"`
	Persisted bool              `json:"persisted"`
}

// MonthResponse is the stored month as served to clients.
type MonthResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []DayResponse `json:"days"`
}

// BalanceResponse wraps the salary-factor fairness report.
type BalanceResponse struct {
	Year        int                   `json:"year"`
	Month       int                   `json:"month"`
	Report      *roster.BalanceReport `json:"report"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// NewWarningResponses converts engine warnings for transport.
func NewWarningResponses(warnings []roster.Warning) []WarningResponse {
	out := make([]WarningResponse, 0, len(warnings))
	for _, w := range warnings {
		wr := WarningResponse{
			Kind:    string(w.Kind),
			GuideID: w.GuideID,
			Message: w.Message,
		}
		if !w.Date.IsZero() {
			wr.Date = roster.DayKey(w.Date)
		}
		out = append(out, wr)
	}
	return out
}
