// Package roster implements the monthly duty scheduling engine: day
// requirement resolution, availability checking, fairness-driven selection,
// closed-weekend continuity, salary balancing, and candidate-month
// validation. The engine is a pure computation over an immutable snapshot;
// persistence and transport live in the service layer.
package roster

import (
	"fmt"
	"time"
)

// Role is a closed set of duty roles.
type Role string

const (
	RoleRegular          Role = "regular"
	RoleOverlap          Role = "overlap"
	RoleStandby          Role = "standby"
	RolePostShabbatCover Role = "post_shabbat_cover"
)

// ParseRole maps an untrusted role string onto the closed enum.
// Unknown values are rejected, never coerced.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleRegular, RoleOverlap, RoleStandby, RolePostShabbatCover:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// DayType classifies a calendar day for staffing purposes.
type DayType string

const (
	DayTypeWeekday        DayType = "weekday"
	DayTypeOpenWeekend    DayType = "open_weekend"
	DayTypeClosedFriday   DayType = "closed_friday"
	DayTypeClosedSaturday DayType = "closed_saturday"
)

// RuleKind is a closed set of coordinator rule kinds.
type RuleKind string

const (
	RuleNoAutomation RuleKind = "exclude_from_automation"
	RuleManualOnly   RuleKind = "manual_only"
	RuleNoWeekends   RuleKind = "no_weekends"
	RuleNoStandby    RuleKind = "no_standby"
	RuleForbidPair   RuleKind = "forbid_pair"
	RuleAvoidPair    RuleKind = "avoid_pair"
)

// ParseRuleKind maps a stored rule kind onto the closed enum.
func ParseRuleKind(raw string) (RuleKind, error) {
	switch RuleKind(raw) {
	case RuleNoAutomation, RuleManualOnly, RuleNoWeekends, RuleNoStandby,
		RuleForbidPair, RuleAvoidPair:
		return RuleKind(raw), nil
	}
	return "", fmt.Errorf("unknown rule kind %q", raw)
}

// ViolationKind tags a validation warning.
type ViolationKind string

const (
	ViolationPersonal         ViolationKind = "personal_constraint"
	ViolationFixed            ViolationKind = "fixed_constraint"
	ViolationVacation         ViolationKind = "vacation"
	ViolationConsecutiveDay   ViolationKind = "consecutive_day"
	ViolationPairConflict     ViolationKind = "pair_conflict"
	ViolationNoAuto           ViolationKind = "no_auto"
	ViolationNoWeekends       ViolationKind = "no_weekends"
	ViolationNoStandby        ViolationKind = "no_standby"
	ViolationCriticalGap      ViolationKind = "critical_gap"
	ViolationContinuityBroken ViolationKind = "continuity_broken"
	ViolationUnknownGuide     ViolationKind = "unknown_guide"
	ViolationUnknownRole      ViolationKind = "unknown_role"
	ViolationDuplicateGuide   ViolationKind = "duplicate_guide"
	ViolationAvoidPair        ViolationKind = "avoid_pair"
	ViolationMalformed        ViolationKind = "malformed_entry"

	// InfoManualPreserved is informational, not a rule violation.
	InfoManualPreserved ViolationKind = "manual_preserved"
)

// Guide is the engine's view of a staff member.
type Guide struct {
	ID     int64
	Name   string
	Active bool
}

// Rule is an active coordinator rule inside a snapshot.
type Rule struct {
	Kind          RuleKind
	GuideID       int64
	SecondGuideID int64 // pair rules only
}

// VacationSpan is an approved or pending absence range.
type VacationSpan struct {
	GuideID  int64
	Start    time.Time
	End      time.Time
	Approved bool
}

// PersonalBlock is a single-date hard block.
type PersonalBlock struct {
	GuideID int64
	Date    time.Time
}

// FixedBlock is a recurring weekday hard block.
type FixedBlock struct {
	GuideID int64
	Weekday time.Weekday
}

// Slot pairs a guide with the role they fill on a date.
type Slot struct {
	GuideID int64 `json:"guide_id"`
	Role    Role  `json:"role"`
}

// Assignment is one day's resolved staffing. At most two slots.
type Assignment struct {
	Date      time.Time `json:"date"`
	Slots     []Slot    `json:"slots"`
	IsManual  bool      `json:"is_manual"`
	Rationale string    `json:"rationale,omitempty"`
}

// Clone returns a deep copy so callers can mutate freely.
func (a Assignment) Clone() Assignment {
	out := a
	out.Slots = append([]Slot(nil), a.Slots...)
	return out
}

// GuideAt returns the guide filling the given role, or 0.
func (a Assignment) GuideAt(role Role) int64 {
	for _, s := range a.Slots {
		if s.Role == role {
			return s.GuideID
		}
	}
	return 0
}

// Has reports whether the guide appears in any slot.
func (a Assignment) Has(guideID int64) bool {
	for _, s := range a.Slots {
		if s.GuideID == guideID {
			return true
		}
	}
	return false
}

// Snapshot is the immutable context for one scheduling run. It is owned by
// a single run and discarded after persistence; the engine never mutates it.
type Snapshot struct {
	Year  int
	Month time.Month

	Guides    []Guide
	Personal  []PersonalBlock
	Fixed     []FixedBlock
	Vacations []VacationSpan
	Rules     []Rule

	// ClosedWeekends is keyed by Friday date (day key). Saturday inherits
	// the preceding Friday's value and never has an independent entry.
	ClosedWeekends map[string]bool

	// Manual maps day key -> committed manual assignment. Immutable input.
	Manual map[string]Assignment
}

// Proposal is an ordered candidate month from any source, possibly
// incomplete or inconsistent. The validator is its only judge.
type Proposal struct {
	Days     []Assignment `json:"days"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// Warning is a typed, dated validation finding.
type Warning struct {
	Date    time.Time     `json:"date"`
	Kind    ViolationKind `json:"kind"`
	GuideID int64         `json:"guide_id,omitempty"`
	Message string        `json:"message"`
}

// Stats summarises how complete a sanitized month is.
type Stats struct {
	TotalDays    int `json:"total_days"`
	CoveredDays  int `json:"covered_days"`
	MissingDays  int `json:"missing_days"`
	GapsFilled   int `json:"gaps_filled"`
	CriticalGaps int `json:"critical_gaps"`
}

// ValidationReport is the validator's full output.
type ValidationReport struct {
	Sanitized []Assignment `json:"sanitized"`
	Warnings  []Warning    `json:"warnings"`
	Stats     Stats        `json:"stats"`
}

// DayKey formats a date as the canonical map key (YYYY-MM-DD).
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthDates returns every date of the month in ascending order, at UTC
// midnight.
func MonthDates(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// index holds the lookup structures one run derives from a snapshot.
type index struct {
	snap      *Snapshot
	guides    map[int64]Guide
	personal  map[int64]map[string]bool
	fixed     map[int64]map[time.Weekday]bool
	soloRules map[int64]map[RuleKind]bool
	pairRules []Rule
}

func newIndex(snap *Snapshot) *index {
	idx := &index{
		snap:      snap,
		guides:    make(map[int64]Guide, len(snap.Guides)),
		personal:  make(map[int64]map[string]bool),
		fixed:     make(map[int64]map[time.Weekday]bool),
		soloRules: make(map[int64]map[RuleKind]bool),
	}
	for _, g := range snap.Guides {
		idx.guides[g.ID] = g
	}
	for _, p := range snap.Personal {
		if idx.personal[p.GuideID] == nil {
			idx.personal[p.GuideID] = make(map[string]bool)
		}
		idx.personal[p.GuideID][DayKey(p.Date)] = true
	}
	for _, f := range snap.Fixed {
		if idx.fixed[f.GuideID] == nil {
			idx.fixed[f.GuideID] = make(map[time.Weekday]bool)
		}
		idx.fixed[f.GuideID][f.Weekday] = true
	}
	for _, r := range snap.Rules {
		switch r.Kind {
		case RuleForbidPair, RuleAvoidPair:
			idx.pairRules = append(idx.pairRules, r)
		default:
			if idx.soloRules[r.GuideID] == nil {
				idx.soloRules[r.GuideID] = make(map[RuleKind]bool)
			}
			idx.soloRules[r.GuideID][r.Kind] = true
		}
	}
	return idx
}

func (idx *index) hasRule(guideID int64, kind RuleKind) bool {
	return idx.soloRules[guideID][kind]
}

// standbyEligible is derived, never stored: a guide without a no-standby
// rule may take standby duty.
func (idx *index) standbyEligible(guideID int64) bool {
	return !idx.hasRule(guideID, RuleNoStandby)
}

func (idx *index) onApprovedVacation(guideID int64, date time.Time) bool {
	for _, v := range idx.snap.Vacations {
		if v.GuideID != guideID || !v.Approved {
			continue
		}
		if !date.Before(v.Start) && !date.After(v.End) {
			return true
		}
	}
	return false
}

// automatable excludes inactive guides and guides under
// exclude-from-automation or manual-only rules.
func (idx *index) automatable(g Guide) bool {
	if !g.Active {
		return false
	}
	return !idx.hasRule(g.ID, RuleNoAutomation) && !idx.hasRule(g.ID, RuleManualOnly)
}

// WeekendClosed reports whether the weekend containing the date is closed.
// Friday reads its own flag; Saturday inherits the preceding Friday's.
// Non-weekend dates are never closed.
func (s *Snapshot) WeekendClosed(date time.Time) bool {
	switch date.Weekday() {
	case time.Friday:
		return s.ClosedWeekends[DayKey(date)]
	case time.Saturday:
		return s.ClosedWeekends[DayKey(date.AddDate(0, 0, -1))]
	}
	return false
}
