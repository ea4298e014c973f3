package roster

import (
	"fmt"
	"time"
)

// Validate sanitizes a candidate month from any source against the same
// rule set the assembler uses. Manual assignments are preserved verbatim,
// violating slots are dropped with typed warnings, Friday→Saturday
// continuity is re-applied, and remaining empty dates get a deterministic
// last-resort fill. Validating an already-sanitized month again yields the
// same assignments and no new warning kinds.
func Validate(snap *Snapshot, proposal *Proposal) *ValidationReport {
	v := &validation{
		snap:   snap,
		idx:    newIndex(snap),
		sched:  make(map[string]Assignment),
		filled: make(map[string]bool),
	}

	candidates := make(map[string]Assignment)
	if proposal != nil {
		for _, day := range proposal.Days {
			key := DayKey(day.Date)
			if day.Date.Year() != snap.Year || day.Date.Month() != snap.Month {
				continue // out-of-month dates are the caller's to reject
			}
			if _, dup := candidates[key]; !dup {
				candidates[key] = day
			}
		}
	}

	dates := MonthDates(snap.Year, snap.Month)
	for _, date := range dates {
		v.sanitizeDay(date, candidates)
	}

	// Continuity restoration and gap filling feed each other: aligning a
	// Saturday can strip the carried guide from Sunday, and filling an
	// empty Friday moves the standby the Saturday must mirror. Iterate
	// both passes until neither changes the schedule.
	for range dates {
		v.changed = false
		v.restoreContinuity(dates)
		v.fillGaps(dates)
		if !v.changed {
			break
		}
	}
	v.flagCriticalGaps(dates)

	report := &ValidationReport{Warnings: v.warnings}
	report.Stats.TotalDays = len(dates)
	report.Stats.GapsFilled = len(v.filled)
	for _, date := range dates {
		asgn := v.sched[DayKey(date)]
		report.Sanitized = append(report.Sanitized, asgn)
		if len(asgn.Slots) > 0 {
			report.Stats.CoveredDays++
		} else {
			report.Stats.CriticalGaps++
		}
	}
	report.Stats.MissingDays = report.Stats.TotalDays - report.Stats.CoveredDays + len(v.filled)
	if report.Warnings == nil {
		report.Warnings = []Warning{}
	}
	return report
}

type validation struct {
	snap     *Snapshot
	idx      *index
	sched    map[string]Assignment
	warnings []Warning
	filled   map[string]bool
	changed  bool
}

func (v *validation) warn(w Warning) {
	v.warnings = append(v.warnings, w)
}

// sanitizeDay keeps manual entries untouched and re-checks every candidate
// slot through the availability and compatibility pipeline. At most two
// survivors per date.
func (v *validation) sanitizeDay(date time.Time, candidates map[string]Assignment) {
	key := DayKey(date)

	if manual, ok := v.snap.Manual[key]; ok {
		kept := manual.Clone()
		kept.IsManual = true
		v.sched[key] = kept
		v.warn(Warning{
			Date:    date,
			Kind:    InfoManualPreserved,
			Message: "manual assignment preserved",
		})
		return
	}

	candidate, ok := candidates[key]
	if !ok {
		v.sched[key] = Assignment{Date: date}
		return
	}

	kept := Assignment{Date: date, Rationale: candidate.Rationale}
	for _, slot := range candidate.Slots {
		if len(kept.Slots) == 2 {
			break
		}
		if v.admit(date, slot, &kept) {
			kept.Slots = append(kept.Slots, slot)
		}
	}
	v.sched[key] = kept
}

// admit re-checks one (guide, role) pair against the current survivors and
// the schedule built so far. Violations drop the pair with a typed warning.
func (v *validation) admit(date time.Time, slot Slot, kept *Assignment) bool {
	g, known := v.idx.guides[slot.GuideID]
	if !known {
		v.warn(Warning{
			Date:    date,
			Kind:    ViolationUnknownGuide,
			GuideID: slot.GuideID,
			Message: fmt.Sprintf("guide %d not in snapshot", slot.GuideID),
		})
		return false
	}
	if !g.Active {
		v.warn(Warning{
			Date:    date,
			Kind:    ViolationNoAuto,
			GuideID: g.ID,
			Message: "guide is inactive",
		})
		return false
	}
	if kept.Has(g.ID) {
		v.warn(Warning{
			Date:    date,
			Kind:    ViolationDuplicateGuide,
			GuideID: g.ID,
			Message: "guide assigned twice on the same date",
		})
		return false
	}

	avail := checkAvailability(v.idx, g, date, slot.Role, v.sched)
	if !avail.Available {
		v.warnings = append(v.warnings, avail.Reasons...)
		return false
	}

	for _, other := range kept.Slots {
		comp := checkCompatibility(v.idx, g.ID, other.GuideID)
		if !comp.Compatible {
			v.warn(Warning{
				Date:    date,
				Kind:    ViolationPairConflict,
				GuideID: g.ID,
				Message: fmt.Sprintf("guides %d and %d must not share a shift", g.ID, other.GuideID),
			})
			return false
		}
		if comp.Severity == SeveritySoft {
			v.warn(Warning{
				Date:    date,
				Kind:    ViolationAvoidPair,
				GuideID: g.ID,
				Message: "avoid-pair guides scheduled together",
			})
		}
	}

	if avail.Severity == SeveritySoft {
		v.warnings = append(v.warnings, avail.Reasons...)
	}
	return true
}

// restoreContinuity re-applies the Friday→Saturday standby guarantee for
// closed weekends, injecting or replacing the first Saturday slot when an
// external proposal broke it. Manual Saturdays are never touched.
func (v *validation) restoreContinuity(dates []time.Time) {
	for _, date := range dates {
		if date.Weekday() != time.Saturday || !v.snap.WeekendClosed(date) {
			continue
		}
		key := DayKey(date)
		sat := v.sched[key]
		if sat.IsManual {
			continue
		}

		friday := date.AddDate(0, 0, -1)
		friStandby := v.sched[DayKey(friday)].GuideAt(RoleStandby)
		if friStandby == 0 || sat.GuideAt(RoleStandby) == friStandby {
			continue
		}

		rebuilt := Assignment{Date: date, Rationale: sat.Rationale}
		rebuilt.Slots = append(rebuilt.Slots, Slot{GuideID: friStandby, Role: RoleStandby})
		for _, s := range sat.Slots {
			if s.Role != RoleStandby && s.GuideID != friStandby && len(rebuilt.Slots) < 2 {
				rebuilt.Slots = append(rebuilt.Slots, s)
			}
		}
		v.sched[key] = rebuilt
		v.changed = true
		v.warn(Warning{
			Date:    date,
			Kind:    ViolationContinuityBroken,
			GuideID: friStandby,
			Message: "restored Friday standby continuity onto Saturday",
		})
		v.dropNextDaySlot(date, friStandby)
	}
}

// dropNextDaySlot removes the carried standby from the day after a
// rewritten Saturday. The carry is the one legal consecutive pair; a slot
// admitted before the rewrite may now sit back-to-back with it.
func (v *validation) dropNextDaySlot(satDate time.Time, guideID int64) {
	next := satDate.AddDate(0, 0, 1)
	key := DayKey(next)
	asgn, ok := v.sched[key]
	if !ok || asgn.IsManual || !asgn.Has(guideID) {
		return
	}
	kept := Assignment{Date: asgn.Date, Rationale: asgn.Rationale}
	for _, s := range asgn.Slots {
		if s.GuideID != guideID {
			kept.Slots = append(kept.Slots, s)
		}
	}
	v.sched[key] = kept
	if len(kept.Slots) == 0 {
		delete(v.filled, key)
	}
	v.changed = true
	v.warn(Warning{
		Date:    next,
		Kind:    ViolationConsecutiveDay,
		GuideID: guideID,
		Message: "worked the preceding day",
	})
}

// fillGaps runs the last-resort completion pass: empty dates get the first
// hard-available guide in the day-type default role. Unfillable dates are
// left empty; flagCriticalGaps reports them once the schedule settles.
func (v *validation) fillGaps(dates []time.Time) {
	for _, date := range dates {
		key := DayKey(date)
		asgn := v.sched[key]
		if len(asgn.Slots) > 0 || asgn.IsManual {
			continue
		}

		reqs := ResolveRequirements(date, v.snap.WeekendClosed(date))
		role := DefaultRoleFor(reqs.DayType)
		for _, g := range v.snap.Guides {
			if !g.Active {
				continue
			}
			// A fill must not create a back-to-back pair with the already
			// sanitized following day; availability only looks backward.
			if v.worksFollowingDay(g.ID, date, role) {
				continue
			}
			if avail := checkAvailability(v.idx, g, date, role, v.sched); avail.Available {
				asgn.Slots = []Slot{{GuideID: g.ID, Role: role}}
				asgn.Rationale = "gap filled with first available guide"
				v.sched[key] = asgn
				v.filled[key] = true
				v.changed = true
				break
			}
		}
	}
}

func (v *validation) flagCriticalGaps(dates []time.Time) {
	for _, date := range dates {
		asgn := v.sched[DayKey(date)]
		if len(asgn.Slots) > 0 || asgn.IsManual {
			continue
		}
		v.warn(Warning{
			Date:    date,
			Kind:    ViolationCriticalGap,
			Message: "no guide available; date left unfilled",
		})
	}
}

func (v *validation) worksFollowingDay(guideID int64, date time.Time, role Role) bool {
	next := date.AddDate(0, 0, 1)
	asgn, ok := v.sched[DayKey(next)]
	if !ok || !asgn.Has(guideID) {
		return false
	}
	if role == RoleStandby &&
		date.Weekday() == time.Friday &&
		v.snap.WeekendClosed(date) &&
		asgn.GuideAt(RoleStandby) == guideID {
		return false
	}
	return true
}
