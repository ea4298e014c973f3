package roster

import (
	"fmt"
	"time"
)

// Severity grades an availability or compatibility finding.
type Severity string

const (
	SeverityClear Severity = "clear"
	SeveritySoft  Severity = "soft"
	SeverityHard  Severity = "hard"
)

// Availability is the outcome of the hard/soft constraint pipeline for one
// guide on one date.
type Availability struct {
	Available bool
	Severity  Severity
	Reasons   []Warning
}

func blocked(date time.Time, guideID int64, kind ViolationKind, msg string) Availability {
	return Availability{
		Available: false,
		Severity:  SeverityHard,
		Reasons: []Warning{{
			Date:    date,
			Kind:    kind,
			GuideID: guideID,
			Message: msg,
		}},
	}
}

// checkAvailability runs the hard-block chain in its fixed order, short
// circuiting on the first match, then evaluates soft findings. The schedule
// built so far supplies yesterday's assignment for the consecutive-day rule.
func checkAvailability(idx *index, g Guide, date time.Time, role Role, sched map[string]Assignment) Availability {
	if idx.personal[g.ID][DayKey(date)] {
		return blocked(date, g.ID, ViolationPersonal, "personal constraint on date")
	}
	if idx.fixed[g.ID][date.Weekday()] {
		return blocked(date, g.ID, ViolationFixed, fmt.Sprintf("fixed constraint on %s", date.Weekday()))
	}
	if idx.onApprovedVacation(g.ID, date) {
		return blocked(date, g.ID, ViolationVacation, "approved vacation covers date")
	}
	if idx.hasRule(g.ID, RuleNoAutomation) || idx.hasRule(g.ID, RuleManualOnly) {
		return blocked(date, g.ID, ViolationNoAuto, "guide excluded from automatic scheduling")
	}
	wd := date.Weekday()
	if (wd == time.Friday || wd == time.Saturday) && idx.hasRule(g.ID, RuleNoWeekends) {
		return blocked(date, g.ID, ViolationNoWeekends, "guide does not work weekends")
	}
	if role == RoleStandby && idx.hasRule(g.ID, RuleNoStandby) {
		return blocked(date, g.ID, ViolationNoStandby, "guide does not take standby duty")
	}
	if workedPreviousDay(idx, g.ID, date, sched) {
		return blocked(date, g.ID, ViolationConsecutiveDay, "worked the preceding day")
	}

	out := Availability{Available: true, Severity: SeverityClear}
	for _, r := range idx.pairRules {
		if r.Kind != RuleAvoidPair {
			continue
		}
		if r.GuideID == g.ID || r.SecondGuideID == g.ID {
			out.Severity = SeveritySoft
			out.Reasons = append(out.Reasons, Warning{
				Date:    date,
				Kind:    ViolationAvoidPair,
				GuideID: g.ID,
				Message: "guide is part of an avoid-pair rule",
			})
		}
	}
	return out
}

// workedPreviousDay applies the consecutive-day rule. The sole exception:
// yesterday was a closed-weekend Friday, the guide held Standby there, and
// today is the paired Saturday.
func workedPreviousDay(idx *index, guideID int64, date time.Time, sched map[string]Assignment) bool {
	prev := date.AddDate(0, 0, -1)
	asgn, ok := sched[DayKey(prev)]
	if !ok || !asgn.Has(guideID) {
		return false
	}
	if date.Weekday() == time.Saturday &&
		prev.Weekday() == time.Friday &&
		idx.snap.WeekendClosed(prev) &&
		asgn.GuideAt(RoleStandby) == guideID {
		return false
	}
	return true
}

// Compatibility is the outcome of a pair-level check.
type Compatibility struct {
	Compatible bool
	Severity   Severity
}

// checkCompatibility evaluates pair rules between two guides: forbid-pair
// is a hard incompatibility, avoid-pair is allowed but flagged.
func checkCompatibility(idx *index, a, b int64) Compatibility {
	out := Compatibility{Compatible: true, Severity: SeverityClear}
	for _, r := range idx.pairRules {
		if !pairMatches(r, a, b) {
			continue
		}
		if r.Kind == RuleForbidPair {
			return Compatibility{Compatible: false, Severity: SeverityHard}
		}
		out.Severity = SeveritySoft
	}
	return out
}

func pairMatches(r Rule, a, b int64) bool {
	return (r.GuideID == a && r.SecondGuideID == b) ||
		(r.GuideID == b && r.SecondGuideID == a)
}
