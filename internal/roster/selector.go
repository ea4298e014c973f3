package roster

import (
	"sort"
	"time"
)

// Scoring weights for the fairness selector.
const (
	weightDeficit       = 100.0
	weightWeeklySmooth  = 50.0
	weightStandbyFit    = 25.0
	penaltyConsecutive  = 1000.0
	weeklySmoothCeiling = 3
)

// tracker is the mutable per-run accumulator: shift counters and weekly
// load, used only for scoring. Hard constraints never read it.
type tracker struct {
	shifts map[int64]int
	weekly map[string]map[int64]int // week key -> guide -> shifts
}

func newTracker() *tracker {
	return &tracker{
		shifts: make(map[int64]int),
		weekly: make(map[string]map[int64]int),
	}
}

// weekKey identifies the calendar week (weeks start on Sunday).
func weekKey(date time.Time) string {
	sunday := date.AddDate(0, 0, -int(date.Weekday()))
	return DayKey(sunday)
}

func (t *tracker) record(date time.Time, guideID int64) {
	t.shifts[guideID]++
	wk := weekKey(date)
	if t.weekly[wk] == nil {
		t.weekly[wk] = make(map[int64]int)
	}
	t.weekly[wk][guideID]++
}

func (t *tracker) recordAssignment(a Assignment) {
	for _, s := range a.Slots {
		t.record(a.Date, s.GuideID)
	}
}

func (t *tracker) shiftCount(guideID int64) int {
	return t.shifts[guideID]
}

func (t *tracker) weekShifts(guideID int64, date time.Time) int {
	return t.weekly[weekKey(date)][guideID]
}

// ComputeMonthlyTargets splits the month's total required slots across
// automatable guides; the remainder goes to the first guides in ascending
// ID order. Targets are a scoring input, never a hard cap.
func ComputeMonthlyTargets(snap *Snapshot) map[int64]int {
	idx := newIndex(snap)
	return computeTargets(snap, idx)
}

func computeTargets(snap *Snapshot, idx *index) map[int64]int {
	totalSlots := 0
	for _, date := range MonthDates(snap.Year, snap.Month) {
		totalSlots += ResolveRequirements(date, snap.WeekendClosed(date)).SlotsNeeded
	}

	var eligible []int64
	for _, g := range snap.Guides {
		if idx.automatable(g) {
			eligible = append(eligible, g.ID)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i] < eligible[j] })

	targets := make(map[int64]int, len(eligible))
	if len(eligible) == 0 {
		return targets
	}
	base := totalSlots / len(eligible)
	remainder := totalSlots % len(eligible)
	for i, id := range eligible {
		targets[id] = base
		if i < remainder {
			targets[id]++
		}
	}
	return targets
}

// selectBest ranks hard-available candidates and returns the winner, or nil
// when the pool is empty (the caller records a gap). Ties break on lower
// current shift count, then lower guide ID, so runs are deterministic.
func selectBest(idx *index, trk *tracker, candidates []Guide, role Role, date time.Time, targets map[int64]int, sched map[string]Assignment) *Guide {
	if len(candidates) == 0 {
		return nil
	}

	var best *Guide
	var bestScore float64
	for i := range candidates {
		g := candidates[i]
		score := scoreCandidate(idx, trk, g, role, date, targets, sched)
		if best == nil || betterThan(trk, score, bestScore, g, *best) {
			best = &candidates[i]
			bestScore = score
		}
	}
	return best
}

func scoreCandidate(idx *index, trk *tracker, g Guide, role Role, date time.Time, targets map[int64]int, sched map[string]Assignment) float64 {
	deficit := float64(targets[g.ID] - trk.shiftCount(g.ID))
	score := weightDeficit * deficit

	weekLoad := trk.weekShifts(g.ID, date)
	if weekLoad < weeklySmoothCeiling {
		score += weightWeeklySmooth * float64(weeklySmoothCeiling-weekLoad)
	}

	if role == RoleStandby && idx.standbyEligible(g.ID) {
		score += weightStandbyFit
	}

	// The availability pipeline already excludes consecutive days; this
	// keeps a slipped-through candidate from ever winning.
	if workedPreviousDay(idx, g.ID, date, sched) {
		score -= penaltyConsecutive
	}
	return score
}

func betterThan(trk *tracker, score, bestScore float64, g, best Guide) bool {
	if score != bestScore {
		return score > bestScore
	}
	gc, bc := trk.shiftCount(g.ID), trk.shiftCount(best.ID)
	if gc != bc {
		return gc < bc
	}
	return g.ID < best.ID
}
