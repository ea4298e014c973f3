package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(mutate func(*Snapshot)) *Snapshot {
	snap := &Snapshot{
		Year:  2025,
		Month: time.August,
		Guides: []Guide{
			{ID: 1, Name: "Avi", Active: true},
			{ID: 2, Name: "Ben", Active: true},
			{ID: 3, Name: "Carmel", Active: true},
			{ID: 4, Name: "Dana", Active: true},
		},
		ClosedWeekends: map[string]bool{},
		Manual:         map[string]Assignment{},
	}
	if mutate != nil {
		mutate(snap)
	}
	return snap
}

func firstReason(t *testing.T, avail Availability) Warning {
	t.Helper()
	require.NotEmpty(t, avail.Reasons)
	return avail.Reasons[0]
}

func TestAvailabilityPersonalConstraint(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Personal = []PersonalBlock{{GuideID: 1, Date: date(2025, time.August, 3)}}
	})
	idx := newIndex(snap)

	avail := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 3), RoleRegular, nil)
	require.False(t, avail.Available)
	assert.Equal(t, SeverityHard, avail.Severity)
	assert.Equal(t, ViolationPersonal, firstReason(t, avail).Kind)

	next := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 4), RoleRegular, nil)
	assert.True(t, next.Available)
}

func TestAvailabilityFixedWeekday(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Fixed = []FixedBlock{{GuideID: 2, Weekday: time.Monday}}
	})
	idx := newIndex(snap)

	avail := checkAvailability(idx, snap.Guides[1], date(2025, time.August, 4), RoleRegular, nil)
	require.False(t, avail.Available)
	assert.Equal(t, ViolationFixed, firstReason(t, avail).Kind)
}

func TestAvailabilityVacationApprovedOnly(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Vacations = []VacationSpan{
			{GuideID: 1, Start: date(2025, time.August, 5), End: date(2025, time.August, 7), Approved: true},
			{GuideID: 2, Start: date(2025, time.August, 5), End: date(2025, time.August, 7), Approved: false},
		}
	})
	idx := newIndex(snap)

	blockedDay := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 6), RoleRegular, nil)
	require.False(t, blockedDay.Available)
	assert.Equal(t, ViolationVacation, firstReason(t, blockedDay).Kind)

	// A pending request never blocks.
	pending := checkAvailability(idx, snap.Guides[1], date(2025, time.August, 6), RoleRegular, nil)
	assert.True(t, pending.Available)

	// Range ends are inclusive.
	edge := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 7), RoleRegular, nil)
	assert.False(t, edge.Available)
	after := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 8), RoleRegular, nil)
	assert.True(t, after.Available)
}

func TestAvailabilitySoloRules(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Rules = []Rule{
			{Kind: RuleNoAutomation, GuideID: 1},
			{Kind: RuleNoWeekends, GuideID: 2},
			{Kind: RuleNoStandby, GuideID: 3},
		}
	})
	idx := newIndex(snap)

	noAuto := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 4), RoleRegular, nil)
	require.False(t, noAuto.Available)
	assert.Equal(t, ViolationNoAuto, firstReason(t, noAuto).Kind)

	weekend := checkAvailability(idx, snap.Guides[1], date(2025, time.August, 1), RoleRegular, nil)
	require.False(t, weekend.Available)
	assert.Equal(t, ViolationNoWeekends, firstReason(t, weekend).Kind)
	midweek := checkAvailability(idx, snap.Guides[1], date(2025, time.August, 4), RoleRegular, nil)
	assert.True(t, midweek.Available)

	standby := checkAvailability(idx, snap.Guides[2], date(2025, time.August, 4), RoleStandby, nil)
	require.False(t, standby.Available)
	assert.Equal(t, ViolationNoStandby, firstReason(t, standby).Kind)
	regular := checkAvailability(idx, snap.Guides[2], date(2025, time.August, 4), RoleRegular, nil)
	assert.True(t, regular.Available)
}

func TestAvailabilityConsecutiveDay(t *testing.T) {
	snap := testSnapshot(nil)
	idx := newIndex(snap)
	sched := map[string]Assignment{
		"2025-08-04": {Date: date(2025, time.August, 4), Slots: []Slot{{GuideID: 1, Role: RoleRegular}}},
	}

	avail := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 5), RoleRegular, sched)
	require.False(t, avail.Available)
	assert.Equal(t, ViolationConsecutiveDay, firstReason(t, avail).Kind)

	other := checkAvailability(idx, snap.Guides[1], date(2025, time.August, 5), RoleRegular, sched)
	assert.True(t, other.Available)
}

func TestAvailabilityConsecutiveDayStandbyException(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.ClosedWeekends["2025-08-08"] = true
	})
	idx := newIndex(snap)
	sched := map[string]Assignment{
		"2025-08-08": {Date: date(2025, time.August, 8), Slots: []Slot{{GuideID: 1, Role: RoleStandby}}},
	}

	// Friday standby may continue into the closed Saturday.
	sat := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 9), RoleStandby, sched)
	assert.True(t, sat.Available)

	// The exception does not extend past the weekend.
	schedSat := map[string]Assignment{
		"2025-08-09": {Date: date(2025, time.August, 9), Slots: []Slot{{GuideID: 1, Role: RoleStandby}}},
	}
	sun := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 10), RoleRegular, schedSat)
	assert.False(t, sun.Available)

	// An open-weekend Friday shift blocks Saturday as usual.
	open := testSnapshot(nil)
	openSched := map[string]Assignment{
		"2025-08-08": {Date: date(2025, time.August, 8), Slots: []Slot{{GuideID: 1, Role: RoleRegular}}},
	}
	blockedDay := checkAvailability(newIndex(open), open.Guides[0], date(2025, time.August, 9), RoleRegular, openSched)
	assert.False(t, blockedDay.Available)
}

func TestAvailabilityHardBlockOrder(t *testing.T) {
	// Personal wins over every later stage when several blocks apply.
	snap := testSnapshot(func(s *Snapshot) {
		s.Personal = []PersonalBlock{{GuideID: 1, Date: date(2025, time.August, 4)}}
		s.Fixed = []FixedBlock{{GuideID: 1, Weekday: time.Monday}}
		s.Rules = []Rule{{Kind: RuleNoAutomation, GuideID: 1}}
	})
	idx := newIndex(snap)

	avail := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 4), RoleRegular, nil)
	require.False(t, avail.Available)
	require.Len(t, avail.Reasons, 1)
	assert.Equal(t, ViolationPersonal, avail.Reasons[0].Kind)
}

func TestAvailabilityAvoidPairIsSoft(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Rules = []Rule{{Kind: RuleAvoidPair, GuideID: 1, SecondGuideID: 2}}
	})
	idx := newIndex(snap)

	avail := checkAvailability(idx, snap.Guides[0], date(2025, time.August, 4), RoleRegular, nil)
	require.True(t, avail.Available)
	assert.Equal(t, SeveritySoft, avail.Severity)
	assert.Equal(t, ViolationAvoidPair, firstReason(t, avail).Kind)
}

func TestCompatibility(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Rules = []Rule{
			{Kind: RuleForbidPair, GuideID: 1, SecondGuideID: 2},
			{Kind: RuleAvoidPair, GuideID: 3, SecondGuideID: 4},
		}
	})
	idx := newIndex(snap)

	forbidden := checkCompatibility(idx, 1, 2)
	assert.False(t, forbidden.Compatible)
	assert.Equal(t, SeverityHard, forbidden.Severity)

	// Pair rules are symmetric.
	reversed := checkCompatibility(idx, 2, 1)
	assert.False(t, reversed.Compatible)

	avoided := checkCompatibility(idx, 3, 4)
	assert.True(t, avoided.Compatible)
	assert.Equal(t, SeveritySoft, avoided.Severity)

	clear := checkCompatibility(idx, 1, 3)
	assert.True(t, clear.Compatible)
	assert.Equal(t, SeverityClear, clear.Severity)
}
