package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMonthlyTargetsSplitsRemainder(t *testing.T) {
	snap := testSnapshot(nil) // 4 guides, no closed weekends
	targets := ComputeMonthlyTargets(snap)
	require.Len(t, targets, 4)

	// August 2025 has 31 days at 2 slots each.
	total := 0
	for _, v := range targets {
		total += v
	}
	assert.Equal(t, 62, total)

	// 62 = 4*15 + 2; the remainder lands on the lowest guide IDs.
	assert.Equal(t, 16, targets[1])
	assert.Equal(t, 16, targets[2])
	assert.Equal(t, 15, targets[3])
	assert.Equal(t, 15, targets[4])
}

func TestComputeMonthlyTargetsExcludesNonAutomatable(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Guides[0].Active = false
		s.Rules = []Rule{{Kind: RuleManualOnly, GuideID: 2}}
	})
	targets := ComputeMonthlyTargets(snap)
	require.Len(t, targets, 2)
	assert.NotContains(t, targets, int64(1))
	assert.NotContains(t, targets, int64(2))
}

func TestComputeMonthlyTargetsClosedWeekendReducesSlots(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.ClosedWeekends["2025-08-08"] = true
	})
	targets := ComputeMonthlyTargets(snap)
	// A closed Friday needs one slot instead of two.
	total := 0
	for _, v := range targets {
		total += v
	}
	assert.Equal(t, 61, total)
}

func TestSelectBestPrefersLargerDeficit(t *testing.T) {
	snap := testSnapshot(nil)
	idx := newIndex(snap)
	trk := newTracker()
	targets := map[int64]int{1: 5, 2: 5, 3: 5, 4: 5}

	// Guide 1 already worked twice; others not at all.
	trk.record(date(2025, time.August, 3), 1)
	trk.record(date(2025, time.August, 5), 1)

	winner := selectBest(idx, trk, snap.Guides, RoleRegular, date(2025, time.August, 11), targets, nil)
	require.NotNil(t, winner)
	assert.NotEqual(t, int64(1), winner.ID)
}

func TestSelectBestWeeklySmoothing(t *testing.T) {
	snap := testSnapshot(nil)
	idx := newIndex(snap)
	trk := newTracker()
	targets := map[int64]int{1: 5, 2: 5}

	// Equal monthly counts, but guide 1's shifts all fall in the current
	// week while guide 2's fall in the previous one.
	trk.record(date(2025, time.August, 11), 1)
	trk.record(date(2025, time.August, 13), 1)
	trk.record(date(2025, time.August, 4), 2)
	trk.record(date(2025, time.August, 6), 2)

	winner := selectBest(idx, trk, snap.Guides[:2], RoleRegular, date(2025, time.August, 15), targets, nil)
	require.NotNil(t, winner)
	assert.Equal(t, int64(2), winner.ID)
}

func TestSelectBestTieBreaksOnGuideID(t *testing.T) {
	snap := testSnapshot(nil)
	idx := newIndex(snap)
	targets := map[int64]int{1: 5, 2: 5, 3: 5, 4: 5}

	winner := selectBest(idx, newTracker(), snap.Guides, RoleRegular, date(2025, time.August, 11), targets, nil)
	require.NotNil(t, winner)
	assert.Equal(t, int64(1), winner.ID)
}

func TestSelectBestEmptyPool(t *testing.T) {
	snap := testSnapshot(nil)
	assert.Nil(t, selectBest(newIndex(snap), newTracker(), nil, RoleRegular, date(2025, time.August, 11), nil, nil))
}

func TestSelectBestStandbyFit(t *testing.T) {
	snap := testSnapshot(func(s *Snapshot) {
		s.Rules = []Rule{{Kind: RuleNoStandby, GuideID: 1}}
	})
	idx := newIndex(snap)
	targets := map[int64]int{1: 5, 2: 5}

	// For a standby slot the eligible guide outranks the lower ID.
	winner := selectBest(idx, newTracker(), snap.Guides[:2], RoleStandby, date(2025, time.August, 8), targets, nil)
	require.NotNil(t, winner)
	assert.Equal(t, int64(2), winner.ID)
}

func TestWeekKeyStartsSunday(t *testing.T) {
	// 2025-08-10 is a Sunday; the whole week shares its key.
	assert.Equal(t, weekKey(date(2025, time.August, 10)), weekKey(date(2025, time.August, 13)))
	assert.Equal(t, weekKey(date(2025, time.August, 10)), weekKey(date(2025, time.August, 16)))
	assert.NotEqual(t, weekKey(date(2025, time.August, 9)), weekKey(date(2025, time.August, 10)))
}
