package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doodDays(n int) []DOODShootDay {
	days := make([]DOODShootDay, n)
	for i := range days {
		days[i] = DOODShootDay{DayNumber: i + 1, Date: testStart.AddDate(0, 0, i)}
	}
	return days
}

func TestDOODStatusAttributes(t *testing.T) {
	assert.Equal(t, "SW", DOODStart.Code())
	assert.Equal(t, "Start", DOODStart.Name())
	assert.Equal(t, "SWF", DOODStartFinish.Code())
	assert.Equal(t, "H", DOODHold.Code())
	assert.Equal(t, "", DOODNone.Code())
	// Every status carries a display color.
	for st := DOODNone; st <= DOODPickup; st++ {
		assert.NotEmpty(t, st.Color(), "status %v", st)
		assert.NotEmpty(t, st.Name(), "status %v", st)
	}
}

func TestNewDOODReportValidatesDimensions(t *testing.T) {
	cast := []DOODCastMember{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bo"}}
	days := doodDays(3)

	_, err := NewDOODReport("Test Pilot", cast, days, [][]DOODStatus{{DOODWork, DOODWork, DOODWork}})
	require.Error(t, err)

	ragged := [][]DOODStatus{
		{DOODWork, DOODWork, DOODWork},
		{DOODWork, DOODWork},
	}
	_, err = NewDOODReport("Test Pilot", cast, days, ragged)
	require.Error(t, err)
}

func TestNewDOODReportStats(t *testing.T) {
	cast := []DOODCastMember{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bo"}}
	days := doodDays(4)
	grid := [][]DOODStatus{
		{DOODStart, DOODWork, DOODHold, DOODFinish},
		{DOODNone, DOODStartFinish, DOODNone, DOODNone},
	}
	rep, err := NewDOODReport("Test Pilot", cast, days, grid)
	require.NoError(t, err)

	require.Len(t, rep.Stats, 2)
	assert.Equal(t, DOODCastStats{TotalDays: 4, StartDays: 1, WorkDays: 3, HoldDays: 1}, rep.Stats[0])
	assert.Equal(t, DOODCastStats{TotalDays: 1, StartDays: 1, WorkDays: 1, HoldDays: 0}, rep.Stats[1])
}

func TestBuildDOODGrid(t *testing.T) {
	// Cast 0 works days 0, 2 and 4; cast 1 works day 1 only; cast 2 never works.
	worked := [][]int{{0, 2, 4}, {1}, {}}
	grid := BuildDOODGrid(3, 5, worked)

	require.Len(t, grid, 3)
	assert.Equal(t, []DOODStatus{DOODStart, DOODHold, DOODWork, DOODHold, DOODFinish}, grid[0])
	assert.Equal(t, []DOODStatus{DOODNone, DOODStartFinish, DOODNone, DOODNone, DOODNone}, grid[1])
	assert.Equal(t, []DOODStatus{DOODNone, DOODNone, DOODNone, DOODNone, DOODNone}, grid[2])
}

func TestBuildDOODGridIgnoresOutOfRangeDays(t *testing.T) {
	grid := BuildDOODGrid(1, 2, [][]int{{-1, 0, 7}})
	assert.Equal(t, []DOODStatus{DOODStartFinish, DOODNone}, grid[0])
}

func TestNewDOODReportTimestamp(t *testing.T) {
	rep, err := NewDOODReport("Test Pilot", nil, nil, nil)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), rep.GeneratedAt, time.Minute)
}
