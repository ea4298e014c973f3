package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilevy/guide-roster-api/internal/models"
	"github.com/adilevy/guide-roster-api/internal/roster"
)

func TestRowToAssignmentUnparseableRoleFallsBackToDayDefault(t *testing.T) {
	snap := &roster.Snapshot{
		Year:           2025,
		Month:          time.August,
		ClosedWeekends: map[string]bool{"2025-08-08": true},
	}
	guide := int64(3)

	// Closed Saturday defaults to standby.
	saturday := rowToAssignment(snap, models.ScheduleRow{
		Date:       time.Date(2025, time.August, 9, 0, 0, 0, 0, time.UTC),
		Guide1ID:   &guide,
		Guide1Role: "night_watch",
	})
	require.Len(t, saturday.Slots, 1)
	assert.Equal(t, guide, saturday.Slots[0].GuideID)
	assert.Equal(t, roster.RoleStandby, saturday.Slots[0].Role)

	// A plain weekday defaults to regular.
	tuesday := rowToAssignment(snap, models.ScheduleRow{
		Date:       time.Date(2025, time.August, 12, 0, 0, 0, 0, time.UTC),
		Guide1ID:   &guide,
		Guide1Role: "night_watch",
	})
	require.Len(t, tuesday.Slots, 1)
	assert.Equal(t, roster.RoleRegular, tuesday.Slots[0].Role)
}

func TestRowToAssignmentKeepsValidRoles(t *testing.T) {
	snap := &roster.Snapshot{Year: 2025, Month: time.August, ClosedWeekends: map[string]bool{}}
	g1, g2 := int64(1), int64(2)

	asgn := rowToAssignment(snap, models.ScheduleRow{
		Date:       time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC),
		Guide1ID:   &g1,
		Guide1Role: "regular",
		Guide2ID:   &g2,
		Guide2Role: "overlap",
		IsManual:   true,
		Rationale:  "coordinator override",
	})
	require.Len(t, asgn.Slots, 2)
	assert.True(t, asgn.IsManual)
	assert.Equal(t, roster.RoleRegular, asgn.Slots[0].Role)
	assert.Equal(t, roster.RoleOverlap, asgn.Slots[1].Role)
}
