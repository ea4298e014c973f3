package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warningKinds(report *ValidationReport) map[ViolationKind]int {
	kinds := make(map[ViolationKind]int)
	for _, w := range report.Warnings {
		kinds[w.Kind]++
	}
	return kinds
}

func dayOf(t *testing.T, report *ValidationReport, key string) Assignment {
	t.Helper()
	for _, day := range report.Sanitized {
		if DayKey(day.Date) == key {
			return day
		}
	}
	t.Fatalf("no sanitized day %s", key)
	return Assignment{}
}

func TestValidateStripsPersonalConstraintViolation(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Personal = []PersonalBlock{{GuideID: 1, Date: date(2025, time.August, 3)}}
	})
	proposal := &Proposal{Days: []Assignment{{
		Date: date(2025, time.August, 3),
		Slots: []Slot{
			{GuideID: 1, Role: RoleRegular},
			{GuideID: 2, Role: RoleOverlap},
		},
	}}}

	report := Validate(snap, proposal)
	day := dayOf(t, report, "2025-08-03")
	assert.False(t, day.Has(1))
	assert.True(t, day.Has(2))
	assert.GreaterOrEqual(t, warningKinds(report)[ViolationPersonal], 1)
}

func TestValidateManualPreservedVerbatim(t *testing.T) {
	// The manual slot violates a personal constraint; it must survive
	// anyway, flagged as informational only.
	manual := Assignment{
		Date:  date(2025, time.August, 5),
		Slots: []Slot{{GuideID: 1, Role: RoleRegular}},
	}
	snap := testSnapshot(func(s *Snapshot) {
		s.Personal = []PersonalBlock{{GuideID: 1, Date: manual.Date}}
		s.Manual[DayKey(manual.Date)] = manual
	})
	proposal := &Proposal{Days: []Assignment{{
		Date:  manual.Date,
		Slots: []Slot{{GuideID: 3, Role: RoleRegular}},
	}}}

	report := Validate(snap, proposal)
	day := dayOf(t, report, "2025-08-05")
	assert.True(t, day.IsManual)
	assert.Equal(t, manual.Slots, day.Slots)
	assert.GreaterOrEqual(t, warningKinds(report)[InfoManualPreserved], 1)
}

func TestValidateDropsUnknownAndDuplicateGuides(t *testing.T) {
	snap := testSnapshot(nil)
	proposal := &Proposal{Days: []Assignment{{
		Date: date(2025, time.August, 4),
		Slots: []Slot{
			{GuideID: 99, Role: RoleRegular},
			{GuideID: 2, Role: RoleRegular},
			{GuideID: 2, Role: RoleOverlap},
		},
	}}}

	report := Validate(snap, proposal)
	day := dayOf(t, report, "2025-08-04")
	require.Len(t, day.Slots, 1)
	assert.Equal(t, int64(2), day.Slots[0].GuideID)

	kinds := warningKinds(report)
	assert.Equal(t, 1, kinds[ViolationUnknownGuide])
	assert.Equal(t, 1, kinds[ViolationDuplicateGuide])
}

func TestValidateCapsSlotsAtTwo(t *testing.T) {
	snap := testSnapshot(nil)
	proposal := &Proposal{Days: []Assignment{{
		Date: date(2025, time.August, 4),
		Slots: []Slot{
			{GuideID: 1, Role: RoleRegular},
			{GuideID: 2, Role: RoleOverlap},
			{GuideID: 3, Role: RoleOverlap},
		},
	}}}

	day := dayOf(t, Validate(snap, proposal), "2025-08-04")
	require.Len(t, day.Slots, 2)
	assert.True(t, day.Has(1))
	assert.True(t, day.Has(2))
}

func TestValidateDropsForbiddenPair(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Rules = []Rule{{Kind: RuleForbidPair, GuideID: 1, SecondGuideID: 2}}
	})
	proposal := &Proposal{Days: []Assignment{{
		Date: date(2025, time.August, 4),
		Slots: []Slot{
			{GuideID: 1, Role: RoleRegular},
			{GuideID: 2, Role: RoleOverlap},
		},
	}}}

	report := Validate(snap, proposal)
	day := dayOf(t, report, "2025-08-04")
	require.Len(t, day.Slots, 1)
	assert.Equal(t, int64(1), day.Slots[0].GuideID)
	assert.Equal(t, 1, warningKinds(report)[ViolationPairConflict])
}

func TestValidateRestoresClosedWeekendContinuity(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.ClosedWeekends["2025-08-08"] = true
	})
	proposal := &Proposal{Days: []Assignment{
		{Date: date(2025, time.August, 8), Slots: []Slot{{GuideID: 1, Role: RoleStandby}}},
		// The proposal hands Saturday's standby to someone else.
		{Date: date(2025, time.August, 9), Slots: []Slot{
			{GuideID: 2, Role: RoleStandby},
			{GuideID: 3, Role: RolePostShabbatCover},
		}},
	}}

	report := Validate(snap, proposal)
	saturday := dayOf(t, report, "2025-08-09")
	assert.Equal(t, int64(1), saturday.GuideAt(RoleStandby))
	assert.Equal(t, int64(3), saturday.GuideAt(RolePostShabbatCover))
	assert.GreaterOrEqual(t, warningKinds(report)[ViolationContinuityBroken], 1)
}

func TestValidateContinuityRestoreDropsNextDaySlot(t *testing.T) {
	// Sunday's slot for guide 1 was legal when admitted (Saturday then
	// held guide 2); restoring Friday's standby onto Saturday must not
	// leave guide 1 working Saturday and Sunday back to back.
	snap := testSnapshot(func(s *Snapshot) {
		s.ClosedWeekends["2025-08-08"] = true
	})
	proposal := &Proposal{Days: []Assignment{
		{Date: date(2025, time.August, 8), Slots: []Slot{{GuideID: 1, Role: RoleStandby}}},
		{Date: date(2025, time.August, 9), Slots: []Slot{{GuideID: 2, Role: RoleStandby}}},
		{Date: date(2025, time.August, 10), Slots: []Slot{
			{GuideID: 1, Role: RoleRegular},
			{GuideID: 3, Role: RoleOverlap},
		}},
	}}

	first := Validate(snap, proposal)
	saturday := dayOf(t, first, "2025-08-09")
	sunday := dayOf(t, first, "2025-08-10")
	assert.Equal(t, int64(1), saturday.GuideAt(RoleStandby))
	assert.False(t, sunday.Has(1))
	assert.True(t, sunday.Has(3))
	assert.GreaterOrEqual(t, warningKinds(first)[ViolationConsecutiveDay], 1)

	second := Validate(snap, &Proposal{Days: first.Sanitized})
	for i := range first.Sanitized {
		assert.Equal(t, first.Sanitized[i].Slots, second.Sanitized[i].Slots, DayKey(first.Sanitized[i].Date))
	}
	assert.Zero(t, warningKinds(second)[ViolationConsecutiveDay])
}

func TestValidateGapFilledFridayKeepsContinuity(t *testing.T) {
	// The proposal leaves a closed Friday empty while Saturday already
	// names a standby. Whoever fills the Friday gap must end up mirrored
	// on Saturday, and the output must survive a second validation.
	snap := testSnapshot(func(s *Snapshot) {
		s.ClosedWeekends["2025-08-08"] = true
	})
	proposal := &Proposal{Days: []Assignment{
		{Date: date(2025, time.August, 9), Slots: []Slot{
			{GuideID: 4, Role: RoleStandby},
			{GuideID: 3, Role: RolePostShabbatCover},
		}},
	}}

	first := Validate(snap, proposal)
	friday := dayOf(t, first, "2025-08-08")
	saturday := dayOf(t, first, "2025-08-09")
	sunday := dayOf(t, first, "2025-08-10")

	friStandby := friday.GuideAt(RoleStandby)
	require.NotZero(t, friStandby)
	assert.Equal(t, friStandby, saturday.GuideAt(RoleStandby))
	assert.Equal(t, int64(3), saturday.GuideAt(RolePostShabbatCover))
	assert.False(t, sunday.Has(friStandby))
	assert.GreaterOrEqual(t, warningKinds(first)[ViolationContinuityBroken], 1)

	second := Validate(snap, &Proposal{Days: first.Sanitized})
	for i := range first.Sanitized {
		assert.Equal(t, first.Sanitized[i].Slots, second.Sanitized[i].Slots, DayKey(first.Sanitized[i].Date))
	}
	assert.Zero(t, warningKinds(second)[ViolationContinuityBroken])
}

func TestValidateFillsGapsAndCountsStats(t *testing.T) {
	snap := testSnapshot(nil)

	report := Validate(snap, &Proposal{})
	assert.Equal(t, 31, report.Stats.TotalDays)
	assert.Equal(t, 31, report.Stats.CoveredDays)
	assert.Equal(t, 0, report.Stats.CriticalGaps)
	assert.Equal(t, 31, report.Stats.GapsFilled)

	for _, day := range report.Sanitized {
		require.Len(t, day.Slots, 1, DayKey(day.Date))
		assert.Equal(t, "gap filled with first available guide", day.Rationale)
	}
}

func TestValidateGapFillRespectsConsecutiveRule(t *testing.T) {
	snap := testSnapshot(nil)
	report := Validate(snap, &Proposal{})

	for i := 1; i < len(report.Sanitized); i++ {
		prev, day := report.Sanitized[i-1], report.Sanitized[i]
		for _, slot := range day.Slots {
			if carriedStandby(snap, report.Sanitized, i, slot.GuideID) {
				continue
			}
			assert.False(t, prev.Has(slot.GuideID),
				"guide %d filled on %s and %s", slot.GuideID, DayKey(prev.Date), DayKey(day.Date))
		}
	}
}

func TestValidateUnfillableDateIsCriticalGap(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		for _, g := range s.Guides {
			s.Fixed = append(s.Fixed, FixedBlock{GuideID: g.ID, Weekday: time.Monday})
		}
	})

	report := Validate(snap, &Proposal{})
	monday := dayOf(t, report, "2025-08-04")
	assert.Empty(t, monday.Slots)
	assert.GreaterOrEqual(t, report.Stats.CriticalGaps, 4) // every August Monday
	assert.GreaterOrEqual(t, warningKinds(report)[ViolationCriticalGap], 4)
}

func TestValidateIdempotent(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.ClosedWeekends["2025-08-08"] = true
		s.Personal = []PersonalBlock{{GuideID: 2, Date: date(2025, time.August, 12)}}
		s.Manual["2025-08-20"] = Assignment{
			Date:  date(2025, time.August, 20),
			Slots: []Slot{{GuideID: 4, Role: RoleRegular}},
		}
	})

	proposal, err := AssembleMonth(context.Background(), snap)
	require.NoError(t, err)

	first := Validate(snap, proposal)
	second := Validate(snap, &Proposal{Days: first.Sanitized})

	for i := range first.Sanitized {
		assert.Equal(t, first.Sanitized[i].Date, second.Sanitized[i].Date)
		assert.Equal(t, first.Sanitized[i].Slots, second.Sanitized[i].Slots, DayKey(first.Sanitized[i].Date))
	}
	assert.Equal(t, first.Stats.CoveredDays, second.Stats.CoveredDays)
	assert.Equal(t, first.Stats.CriticalGaps, second.Stats.CriticalGaps)
}

func TestValidateAssembledMonthIsClean(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.ClosedWeekends["2025-08-08"] = true
	})
	proposal, err := AssembleMonth(context.Background(), snap)
	require.NoError(t, err)

	report := Validate(snap, proposal)
	kinds := warningKinds(report)
	for _, kind := range []ViolationKind{
		ViolationPersonal, ViolationFixed, ViolationVacation,
		ViolationConsecutiveDay, ViolationPairConflict, ViolationCriticalGap,
	} {
		assert.Zero(t, kinds[kind], kind)
	}
	for i, day := range report.Sanitized {
		assert.Equal(t, proposal.Days[i].Slots, day.Slots, DayKey(day.Date))
	}
}
