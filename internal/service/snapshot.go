package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/models"
	"github.com/adilevy/guide-roster-api/internal/roster"
)

// snapshotInput is everything the repositories contribute to one run.
type snapshotInput struct {
	guides    []models.Guide
	personal  []models.PersonalConstraint
	fixed     []models.FixedConstraint
	vacations []models.Vacation
	rules     []models.CoordinatorRule
	weekends  []models.WeekendStatus
	schedule  []models.ScheduleRow
}

// buildSnapshot converts stored rows into the engine's immutable snapshot.
// Rules with kinds the engine does not know are skipped with a log line
// rather than failing the run; they may belong to a newer deployment.
func buildSnapshot(year int, month time.Month, in snapshotInput, logger *zap.Logger) *roster.Snapshot {
	snap := &roster.Snapshot{
		Year:           year,
		Month:          month,
		ClosedWeekends: make(map[string]bool),
		Manual:         make(map[string]roster.Assignment),
	}

	for _, g := range in.guides {
		snap.Guides = append(snap.Guides, roster.Guide{ID: g.ID, Name: g.Name, Active: g.Active})
	}
	for _, p := range in.personal {
		snap.Personal = append(snap.Personal, roster.PersonalBlock{
			GuideID: p.GuideID,
			Date:    dateOnly(p.Date),
		})
	}
	for _, f := range in.fixed {
		snap.Fixed = append(snap.Fixed, roster.FixedBlock{
			GuideID: f.GuideID,
			Weekday: time.Weekday(f.Weekday),
		})
	}
	for _, v := range in.vacations {
		snap.Vacations = append(snap.Vacations, roster.VacationSpan{
			GuideID:  v.GuideID,
			Start:    dateOnly(v.StartDate),
			End:      dateOnly(v.EndDate),
			Approved: v.Approved(),
		})
	}
	for _, r := range in.rules {
		if !r.Active {
			continue
		}
		kind, err := roster.ParseRuleKind(r.Kind)
		if err != nil {
			logger.Warn("skipping rule with unknown kind",
				zap.Int64("rule_id", r.ID),
				zap.String("kind", r.Kind))
			continue
		}
		rule := roster.Rule{Kind: kind, GuideID: r.GuideID}
		if r.SecondGuideID != nil {
			rule.SecondGuideID = *r.SecondGuideID
		}
		snap.Rules = append(snap.Rules, rule)
	}
	for _, w := range in.weekends {
		snap.ClosedWeekends[roster.DayKey(w.FridayDate)] = w.Closed
	}
	for _, row := range in.schedule {
		if !row.IsManual {
			continue
		}
		asgn := rowToAssignment(snap, row)
		snap.Manual[roster.DayKey(asgn.Date)] = asgn
	}
	return snap
}

// rowToAssignment rebuilds an engine assignment from its stored row. Roles
// that fail to parse are kept under the day-type default so a manual row
// never silently loses a guide.
func rowToAssignment(snap *roster.Snapshot, row models.ScheduleRow) roster.Assignment {
	asgn := roster.Assignment{
		Date:      dateOnly(row.Date),
		IsManual:  row.IsManual,
		Rationale: row.Rationale,
	}
	appendSlot := func(id *int64, rawRole string) {
		if id == nil || *id == 0 {
			return
		}
		role, err := roster.ParseRole(rawRole)
		if err != nil {
			reqs := roster.ResolveRequirements(asgn.Date, snap.WeekendClosed(asgn.Date))
			role = roster.DefaultRoleFor(reqs.DayType)
		}
		asgn.Slots = append(asgn.Slots, roster.Slot{GuideID: *id, Role: role})
	}
	appendSlot(row.Guide1ID, row.Guide1Role)
	appendSlot(row.Guide2ID, row.Guide2Role)
	return asgn
}

// assignmentToRow flattens an engine assignment for persistence.
func assignmentToRow(asgn roster.Assignment) models.ScheduleRow {
	row := models.ScheduleRow{
		Date:      asgn.Date,
		IsManual:  asgn.IsManual,
		Rationale: asgn.Rationale,
	}
	if len(asgn.Slots) > 0 {
		id := asgn.Slots[0].GuideID
		row.Guide1ID = &id
		row.Guide1Role = string(asgn.Slots[0].Role)
	}
	if len(asgn.Slots) > 1 {
		id := asgn.Slots[1].GuideID
		row.Guide2ID = &id
		row.Guide2Role = string(asgn.Slots[1].Role)
	}
	return row
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
