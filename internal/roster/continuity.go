package roster

import "time"

// resolveClosedSaturday applies the Friday→Saturday continuity state
// machine. A Friday standby guide is carried forward without re-selection
// or re-checking; continuity is a guarantee, not a candidacy. A second
// guide covers the post-Shabbat segment when one is available.
func (r *run) resolveClosedSaturday(date time.Time) Assignment {
	asgn := Assignment{Date: date}

	friday := date.AddDate(0, 0, -1)
	carried := int64(0)
	if fa, ok := r.sched[DayKey(friday)]; ok {
		carried = fa.GuideAt(RoleStandby)
	}

	if carried != 0 {
		asgn.Slots = append(asgn.Slots, Slot{GuideID: carried, Role: RoleStandby})
		asgn.Rationale = "standby carried forward from Friday"
	} else {
		r.warn(Warning{
			Date:    date,
			Kind:    ViolationContinuityBroken,
			Message: "no Friday standby to carry forward; selecting independently",
		})
		if g := r.pick(date, RoleStandby, asgn.Slots, nil); g != nil {
			asgn.Slots = append(asgn.Slots, Slot{GuideID: g.ID, Role: RoleStandby})
			asgn.Rationale = "independent standby selection"
		} else {
			r.warn(Warning{
				Date:    date,
				Kind:    ViolationCriticalGap,
				Message: "no available guide for role standby",
			})
		}
	}

	exclude := map[int64]bool{}
	if carried != 0 {
		exclude[carried] = true
	}
	if cover := r.pick(date, RolePostShabbatCover, asgn.Slots, exclude); cover != nil {
		asgn.Slots = append(asgn.Slots, Slot{GuideID: cover.ID, Role: RolePostShabbatCover})
	} else {
		r.warn(Warning{
			Date:    date,
			Kind:    ViolationCriticalGap,
			Message: "no available guide for post-shabbat cover",
		})
	}

	if asgn.Rationale == "" {
		asgn.Rationale = "unfilled: no available guides"
	}
	return asgn
}
