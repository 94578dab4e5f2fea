package schedule

import (
	"fmt"
	"time"
)

// DOODStatus is one cell value of the Day-Out-of-Days grid.  The
// enumeration is closed: industry reports use exactly these codes.
type DOODStatus int

const (
	DOODNone DOODStatus = iota
	DOODStart
	DOODWork
	DOODFinish
	DOODStartFinish
	DOODHold
	DOODTravel
	DOODRehearsal
	DOODFitting
	DOODHoliday
	DOODDrop
	DOODPickup
)

// doodAttr carries the fixed display attributes of a status.  Colors are
// the hex values used when the grid is rendered; the model itself holds no
// rendering logic.
type doodAttr struct {
	code  string
	name  string
	color string
}

var doodAttrs = map[DOODStatus]doodAttr{
	DOODNone:        {"", "None", "#FFFFFF"},
	DOODStart:       {"SW", "Start", "#4CAF50"},
	DOODWork:        {"W", "Work", "#2196F3"},
	DOODFinish:      {"WF", "Finish", "#9C27B0"},
	DOODStartFinish: {"SWF", "Start/Finish", "#009688"},
	DOODHold:        {"H", "Hold", "#FF9800"},
	DOODTravel:      {"T", "Travel", "#795548"},
	DOODRehearsal:   {"R", "Rehearsal", "#3F51B5"},
	DOODFitting:     {"F", "Fitting", "#E91E63"},
	DOODHoliday:     {"Y", "Holiday", "#607D8B"},
	DOODDrop:        {"D", "Drop", "#9E9E9E"},
	DOODPickup:      {"P", "Pickup", "#00BCD4"},
}

// Code returns the industry letter code ("SW", "W", "H", ...).
func (s DOODStatus) Code() string { return doodAttrs[s].code }

// Name returns the human-readable status name.
func (s DOODStatus) Name() string { return doodAttrs[s].name }

// Color returns the fixed display color as a hex string.
func (s DOODStatus) Color() string { return doodAttrs[s].color }

// DOODCastMember identifies one row of the report.  Immutable once the
// report is constructed.
type DOODCastMember struct {
	ID         uint64 `json:"id"`
	CastNumber uint32 `json:"cast_number"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

// DOODShootDay identifies one column of the report.
type DOODShootDay struct {
	DayNumber int       `json:"day_number"`
	Date      time.Time `json:"date"`
}

// DOODCastStats are the per-cast aggregate day counts shown in the report
// margin.  Work counts every working status (SW, W, WF, SWF); Start counts
// SW and SWF; Total counts every cell that is not None.
type DOODCastStats struct {
	TotalDays int `json:"total_days"`
	StartDays int `json:"start_days"`
	WorkDays  int `json:"work_days"`
	HoldDays  int `json:"hold_days"`
}

// DOODReport is the finished Day-Out-of-Days report: a cast-by-day status
// grid plus per-cast statistics.  Grid is indexed [castIndex][dayIndex].
type DOODReport struct {
	ProductionName string           `json:"production_name"`
	Cast           []DOODCastMember `json:"cast"`
	Days           []DOODShootDay   `json:"days"`
	Grid           [][]DOODStatus   `json:"grid"`
	Stats          []DOODCastStats  `json:"stats"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// NewDOODReport assembles a report from a pre-built grid.  Dimensions are
// validated fail-fast: the grid must have one row per cast member and one
// column per shoot day or an error is returned.
func NewDOODReport(productionName string, cast []DOODCastMember, days []DOODShootDay, grid [][]DOODStatus) (*DOODReport, error) {
	if len(grid) != len(cast) {
		return nil, fmt.Errorf("dood grid has %d rows for %d cast members", len(grid), len(cast))
	}
	for i, row := range grid {
		if len(row) != len(days) {
			return nil, fmt.Errorf("dood grid row %d has %d columns for %d shoot days", i, len(row), len(days))
		}
	}

	stats := make([]DOODCastStats, len(cast))
	for i, row := range grid {
		for _, st := range row {
			if st != DOODNone {
				stats[i].TotalDays++
			}
			switch st {
			case DOODStart, DOODStartFinish:
				stats[i].StartDays++
			case DOODHold:
				stats[i].HoldDays++
			}
			switch st {
			case DOODStart, DOODWork, DOODFinish, DOODStartFinish:
				stats[i].WorkDays++
			}
		}
	}

	return &DOODReport{
		ProductionName: productionName,
		Cast:           cast,
		Days:           days,
		Grid:           grid,
		Stats:          stats,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// BuildDOODGrid derives the standard status grid from per-cast worked-day
// sets: SW on the first worked day, WF on the last, SWF when they
// coincide, W on worked days between, H on idle days between first and
// last, and None outside the engagement.  worked[i] holds the day indexes
// (columns) on which cast member i works.
func BuildDOODGrid(castCount, dayCount int, worked [][]int) [][]DOODStatus {
	grid := make([][]DOODStatus, castCount)
	for i := range grid {
		grid[i] = make([]DOODStatus, dayCount)
		if i >= len(worked) || len(worked[i]) == 0 {
			continue
		}
		first, last := dayCount, -1
		set := make(map[int]bool, len(worked[i]))
		for _, d := range worked[i] {
			if d < 0 || d >= dayCount {
				continue
			}
			set[d] = true
			if d < first {
				first = d
			}
			if d > last {
				last = d
			}
		}
		if last < 0 {
			continue
		}
		for d := first; d <= last; d++ {
			switch {
			case d == first && d == last:
				grid[i][d] = DOODStartFinish
			case d == first:
				grid[i][d] = DOODStart
			case d == last:
				grid[i][d] = DOODFinish
			case set[d]:
				grid[i][d] = DOODWork
			default:
				grid[i][d] = DOODHold
			}
		}
	}
	return grid
}
