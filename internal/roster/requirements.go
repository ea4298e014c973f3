package roster

import "time"

// DayRequirements describes how a date must be staffed.
type DayRequirements struct {
	DayType     DayType `json:"day_type"`
	SlotsNeeded int     `json:"slots_needed"`
	Roles       []Role  `json:"roles"`
}

// ResolveRequirements determines slot count and roles for a date given the
// closed flag of its weekend. Deterministic, no side effects.
func ResolveRequirements(date time.Time, weekendClosed bool) DayRequirements {
	switch date.Weekday() {
	case time.Friday:
		if weekendClosed {
			return DayRequirements{
				DayType:     DayTypeClosedFriday,
				SlotsNeeded: 1,
				Roles:       []Role{RoleStandby},
			}
		}
		return openWeekendRequirements()
	case time.Saturday:
		if weekendClosed {
			// Standby continues from Friday; cover is best-effort.
			return DayRequirements{
				DayType:     DayTypeClosedSaturday,
				SlotsNeeded: 2,
				Roles:       []Role{RoleStandby, RolePostShabbatCover},
			}
		}
		return openWeekendRequirements()
	}
	return DayRequirements{
		DayType:     DayTypeWeekday,
		SlotsNeeded: 2,
		Roles:       []Role{RoleRegular, RoleOverlap},
	}
}

func openWeekendRequirements() DayRequirements {
	return DayRequirements{
		DayType:     DayTypeOpenWeekend,
		SlotsNeeded: 2,
		Roles:       []Role{RoleRegular, RoleOverlap},
	}
}

// DefaultRoleFor picks the fallback role used when the validator fills a
// gap on a day of the given type.
func DefaultRoleFor(dt DayType) Role {
	switch dt {
	case DayTypeClosedFriday, DayTypeClosedSaturday:
		return RoleStandby
	}
	return RoleRegular
}
