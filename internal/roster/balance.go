package roster

import (
	"math"
	"sort"
)

// Salary multipliers per hour class. Unit-less; used only for fairness
// comparison, never payroll.
const (
	multiplierRegular        = 1.0
	multiplierNight          = 1.5
	multiplierShabbat        = 2.0
	multiplierStandby        = 0.3
	multiplierStandbyShabbat = 0.6
)

// Deviation beyond this share of the population mean triggers advice.
const rebalanceThreshold = 0.15

// HoursVector splits a duty into weighted hour classes.
type HoursVector struct {
	Regular        float64 `json:"regular"`
	Night          float64 `json:"night"`
	Shabbat        float64 `json:"shabbat"`
	Standby        float64 `json:"standby"`
	StandbyShabbat float64 `json:"standby_shabbat"`
}

// Add accumulates another vector into this one.
func (h *HoursVector) Add(other HoursVector) {
	h.Regular += other.Regular
	h.Night += other.Night
	h.Shabbat += other.Shabbat
	h.Standby += other.Standby
	h.StandbyShabbat += other.StandbyShabbat
}

// SalaryFactor collapses the vector through the fixed multiplier table.
// Pure: equal assignment sequences always produce equal factors.
func (h HoursVector) SalaryFactor() float64 {
	return h.Regular*multiplierRegular +
		h.Night*multiplierNight +
		h.Shabbat*multiplierShabbat +
		h.Standby*multiplierStandby +
		h.StandbyShabbat*multiplierStandbyShabbat
}

// hoursFor is the fixed (role, day-type) lookup. A weekday shift spans a
// 16h day segment plus an 8h night; overlap runs one hour longer. Open
// weekend hours are all Shabbat-classed. Closed-weekend standby counts at
// the reduced standby classes, and the post-Shabbat cover is a night
// segment.
func hoursFor(role Role, dt DayType) HoursVector {
	switch dt {
	case DayTypeWeekday:
		if role == RoleOverlap {
			return HoursVector{Regular: 17, Night: 8}
		}
		return HoursVector{Regular: 16, Night: 8}
	case DayTypeOpenWeekend:
		if role == RoleOverlap {
			return HoursVector{Shabbat: 25}
		}
		return HoursVector{Shabbat: 24}
	case DayTypeClosedFriday:
		return HoursVector{Standby: 24}
	case DayTypeClosedSaturday:
		if role == RolePostShabbatCover {
			return HoursVector{Night: 8}
		}
		return HoursVector{StandbyShabbat: 24}
	}
	return HoursVector{}
}

// GuideBalance is one guide's monthly workload summary.
type GuideBalance struct {
	GuideID      int64       `json:"guide_id"`
	Name         string      `json:"name"`
	Shifts       int         `json:"shifts"`
	Hours        HoursVector `json:"hours"`
	SalaryFactor float64     `json:"salary_factor"`
}

// BalanceAdvice flags a guide whose factor strays from the mean.
type BalanceAdvice struct {
	GuideID      int64   `json:"guide_id"`
	Tag          string  `json:"tag"` // overworked | underworked
	DeviationPct float64 `json:"deviation_pct"`
}

// BalanceReport aggregates salary factors and the population fairness
// score for a month.
type BalanceReport struct {
	Guides        []GuideBalance  `json:"guides"`
	MeanFactor    float64         `json:"mean_factor"`
	FairnessScore float64         `json:"fairness_score"`
	Advice        []BalanceAdvice `json:"advice,omitempty"`
}

// ComputeBalance converts every (role, day-type) pair in the month into
// weighted hours, sums per guide, and scores the distribution.
func ComputeBalance(snap *Snapshot, days []Assignment) *BalanceReport {
	byGuide := make(map[int64]*GuideBalance)
	for _, g := range snap.Guides {
		if !g.Active {
			continue
		}
		byGuide[g.ID] = &GuideBalance{GuideID: g.ID, Name: g.Name}
	}

	for _, day := range days {
		dt := ResolveRequirements(day.Date, snap.WeekendClosed(day.Date)).DayType
		for _, slot := range day.Slots {
			gb, ok := byGuide[slot.GuideID]
			if !ok {
				continue
			}
			gb.Shifts++
			gb.Hours.Add(hoursFor(slot.Role, dt))
		}
	}

	report := &BalanceReport{}
	for _, gb := range byGuide {
		gb.SalaryFactor = gb.Hours.SalaryFactor()
		report.Guides = append(report.Guides, *gb)
	}
	sort.Slice(report.Guides, func(i, j int) bool {
		return report.Guides[i].GuideID < report.Guides[j].GuideID
	})

	report.MeanFactor, report.FairnessScore = fairness(report.Guides)
	for _, gb := range report.Guides {
		if report.MeanFactor == 0 {
			break
		}
		deviation := (gb.SalaryFactor - report.MeanFactor) / report.MeanFactor
		if deviation > rebalanceThreshold {
			report.Advice = append(report.Advice, BalanceAdvice{
				GuideID:      gb.GuideID,
				Tag:          "overworked",
				DeviationPct: deviation * 100,
			})
		} else if deviation < -rebalanceThreshold {
			report.Advice = append(report.Advice, BalanceAdvice{
				GuideID:      gb.GuideID,
				Tag:          "underworked",
				DeviationPct: deviation * 100,
			})
		}
	}
	return report
}

// fairness converts the spread of salary factors to a 0-100 score:
// 100 when the standard deviation is zero (or the mean is), 0 when the
// deviation reaches the mean.
func fairness(guides []GuideBalance) (mean, score float64) {
	if len(guides) == 0 {
		return 0, 100
	}

	var sum float64
	for _, g := range guides {
		sum += g.SalaryFactor
	}
	mean = sum / float64(len(guides))
	if mean == 0 {
		return 0, 100
	}

	var varianceSum float64
	for _, g := range guides {
		diff := g.SalaryFactor - mean
		varianceSum += diff * diff
	}
	stddev := math.Sqrt(varianceSum / float64(len(guides)))

	score = (1.0 - stddev/mean) * 100.0
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return mean, score
}
