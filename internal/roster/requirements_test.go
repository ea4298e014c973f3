package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveRequirementsWeekday(t *testing.T) {
	reqs := ResolveRequirements(date(2025, time.August, 4), false) // Monday
	assert.Equal(t, DayTypeWeekday, reqs.DayType)
	assert.Equal(t, 2, reqs.SlotsNeeded)
	assert.Equal(t, []Role{RoleRegular, RoleOverlap}, reqs.Roles)
}

func TestResolveRequirementsOpenWeekend(t *testing.T) {
	for _, d := range []time.Time{
		date(2025, time.August, 1), // Friday
		date(2025, time.August, 2), // Saturday
	} {
		reqs := ResolveRequirements(d, false)
		assert.Equal(t, DayTypeOpenWeekend, reqs.DayType, d.Weekday())
		assert.Equal(t, 2, reqs.SlotsNeeded)
		assert.Equal(t, []Role{RoleRegular, RoleOverlap}, reqs.Roles)
	}
}

func TestResolveRequirementsClosedWeekend(t *testing.T) {
	fri := ResolveRequirements(date(2025, time.August, 8), true)
	require.Equal(t, DayTypeClosedFriday, fri.DayType)
	assert.Equal(t, 1, fri.SlotsNeeded)
	assert.Equal(t, []Role{RoleStandby}, fri.Roles)

	sat := ResolveRequirements(date(2025, time.August, 9), true)
	require.Equal(t, DayTypeClosedSaturday, sat.DayType)
	assert.Equal(t, 2, sat.SlotsNeeded)
	assert.Equal(t, []Role{RoleStandby, RolePostShabbatCover}, sat.Roles)
}

func TestResolveRequirementsClosedFlagIgnoredMidweek(t *testing.T) {
	reqs := ResolveRequirements(date(2025, time.August, 6), true) // Wednesday
	assert.Equal(t, DayTypeWeekday, reqs.DayType)
}

func TestDefaultRoleFor(t *testing.T) {
	assert.Equal(t, RoleRegular, DefaultRoleFor(DayTypeWeekday))
	assert.Equal(t, RoleRegular, DefaultRoleFor(DayTypeOpenWeekend))
	assert.Equal(t, RoleStandby, DefaultRoleFor(DayTypeClosedFriday))
	assert.Equal(t, RoleStandby, DefaultRoleFor(DayTypeClosedSaturday))
}

func TestMonthDates(t *testing.T) {
	dates := MonthDates(2025, time.February)
	require.Len(t, dates, 28)
	assert.Equal(t, date(2025, time.February, 1), dates[0])
	assert.Equal(t, date(2025, time.February, 28), dates[27])
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	_, err := ParseRole("supervisor")
	require.Error(t, err)

	role, err := ParseRole("post_shabbat_cover")
	require.NoError(t, err)
	assert.Equal(t, RolePostShabbatCover, role)
}

func TestWeekendClosedSaturdayInheritsFriday(t *testing.T) {
	snap := &Snapshot{ClosedWeekends: map[string]bool{"2025-08-08": true}}
	assert.True(t, snap.WeekendClosed(date(2025, time.August, 8)))
	assert.True(t, snap.WeekendClosed(date(2025, time.August, 9)))
	assert.False(t, snap.WeekendClosed(date(2025, time.August, 15)))
	assert.False(t, snap.WeekendClosed(date(2025, time.August, 10))) // Sunday
}
