package roster

import (
	"context"
	"fmt"
	"time"
)

// run carries the mutable state of one assembly pass: the schedule built so
// far, the scoring accumulator, and collected warnings. Day N+1's scoring
// depends on day N's outcome, so the loop is strictly sequential.
type run struct {
	snap     *Snapshot
	idx      *index
	trk      *tracker
	targets  map[int64]int
	sched    map[string]Assignment
	warnings []Warning
}

func newRun(snap *Snapshot) *run {
	idx := newIndex(snap)
	return &run{
		snap:    snap,
		idx:     idx,
		trk:     newTracker(),
		targets: computeTargets(snap, idx),
		sched:   make(map[string]Assignment),
	}
}

// AssembleMonth builds a candidate month for the snapshot's target month.
// Manual assignments pass through untouched; every other date is resolved
// through the requirement/availability/selection pipeline. Cancellation is
// honoured between days only; a single day's resolution is atomic.
func AssembleMonth(ctx context.Context, snap *Snapshot) (*Proposal, error) {
	r := newRun(snap)
	proposal := &Proposal{}

	for _, date := range MonthDates(snap.Year, snap.Month) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if manual, ok := snap.Manual[DayKey(date)]; ok {
			kept := manual.Clone()
			kept.IsManual = true
			r.commit(kept)
			proposal.Days = append(proposal.Days, kept)
			continue
		}

		reqs := ResolveRequirements(date, snap.WeekendClosed(date))
		var asgn Assignment
		switch reqs.DayType {
		case DayTypeClosedSaturday:
			asgn = r.resolveClosedSaturday(date)
		default:
			asgn = r.fillDay(date, reqs)
		}
		r.commit(asgn)
		proposal.Days = append(proposal.Days, asgn)
	}

	proposal.Warnings = r.warnings
	return proposal, nil
}

// commit records the assignment into the running schedule and the scoring
// accumulator so later days see its effect.
func (r *run) commit(a Assignment) {
	r.sched[DayKey(a.Date)] = a
	r.trk.recordAssignment(a)
}

// fillDay resolves a weekday, open-weekend day, or closed Friday by
// selecting a guide per required role.
func (r *run) fillDay(date time.Time, reqs DayRequirements) Assignment {
	asgn := Assignment{Date: date}

	for i := 0; i < reqs.SlotsNeeded && i < len(reqs.Roles); i++ {
		role := reqs.Roles[i]
		g := r.pick(date, role, asgn.Slots, nil)
		if g == nil {
			r.warn(Warning{
				Date:    date,
				Kind:    ViolationCriticalGap,
				Message: fmt.Sprintf("no available guide for role %s", role),
			})
			continue
		}
		asgn.Slots = append(asgn.Slots, Slot{GuideID: g.ID, Role: role})
	}

	asgn.Rationale = r.rationaleFor(asgn, reqs)
	return asgn
}

// pick builds the hard-filtered candidate pool for a role and runs the
// fairness selector over it. Soft findings attached to the winner are
// recorded as warnings. Guides in exclude never enter the pool.
func (r *run) pick(date time.Time, role Role, taken []Slot, exclude map[int64]bool) *Guide {
	var pool []Guide
	softs := make(map[int64][]Warning)

	for _, g := range r.snap.Guides {
		if !g.Active || exclude[g.ID] || slotsContain(taken, g.ID) {
			continue
		}
		avail := checkAvailability(r.idx, g, date, role, r.sched)
		if !avail.Available {
			continue
		}
		compatible := true
		for _, s := range taken {
			comp := checkCompatibility(r.idx, g.ID, s.GuideID)
			if !comp.Compatible {
				compatible = false
				break
			}
			if comp.Severity == SeveritySoft {
				softs[g.ID] = append(softs[g.ID], Warning{
					Date:    date,
					Kind:    ViolationAvoidPair,
					GuideID: g.ID,
					Message: "avoid-pair guides scheduled together",
				})
			}
		}
		if !compatible {
			continue
		}
		if avail.Severity == SeveritySoft {
			softs[g.ID] = append(softs[g.ID], avail.Reasons...)
		}
		pool = append(pool, g)
	}

	winner := selectBest(r.idx, r.trk, pool, role, date, r.targets, r.sched)
	if winner != nil {
		r.warnings = append(r.warnings, softs[winner.ID]...)
	}
	return winner
}

func (r *run) warn(w Warning) {
	r.warnings = append(r.warnings, w)
}

func (r *run) rationaleFor(asgn Assignment, reqs DayRequirements) string {
	if len(asgn.Slots) == 0 {
		return "unfilled: no available guides"
	}
	if len(asgn.Slots) < reqs.SlotsNeeded {
		return "partially filled by fairness ranking"
	}
	return "filled by fairness ranking"
}

func slotsContain(slots []Slot, guideID int64) bool {
	for _, s := range slots {
		if s.GuideID == guideID {
			return true
		}
	}
	return false
}
