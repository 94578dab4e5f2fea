package schedule

import (
	"time"

	"github.com/reelworks/production-runner/internal/model"
)

// OneLinerItem is an immutable display snapshot of one scene on the
// one-liner schedule.  Items are rebuilt from scratch on every schedule
// generation and never mutated in place.
type OneLinerItem struct {
	SceneNumber string `json:"scene_number"`
	IntExt      string `json:"int_ext"`      // "INT", "EXT", "I/E" or ""
	Set         string `json:"set"`          // set description
	DayNight    string `json:"day_night"`    // time-of-day code from the heading
	Pages       string `json:"pages"`        // formatted page length
	PageEighths int    `json:"page_eighths"` // raw page length
	CastIDs     string `json:"cast_ids"`     // comma-joined cast member IDs
	Location    string `json:"location"`
	Notes       string `json:"notes,omitempty"`
}

// OneLinerDay groups the scenes shot on one calendar day.
type OneLinerDay struct {
	DayNumber int            `json:"day_number"` // 1-based, monotonically increasing
	Date      time.Time      `json:"date"`
	Items     []OneLinerItem `json:"items"`
}

// TotalEighths returns the summed page length of the day's scenes.
func (d OneLinerDay) TotalEighths() int {
	total := 0
	for _, it := range d.Items {
		total += it.PageEighths
	}
	return total
}

// SceneCount returns the number of scenes scheduled on the day.
func (d OneLinerDay) SceneCount() int { return len(d.Items) }

// OneLinerSchedule is the full one-liner: every shoot day of a production
// in order, with aggregate totals derived on demand.
type OneLinerSchedule struct {
	ProductionName string        `json:"production_name"`
	Days           []OneLinerDay `json:"days"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// TotalScenes returns the scene count across all days.
func (s OneLinerSchedule) TotalScenes() int {
	total := 0
	for _, d := range s.Days {
		total += len(d.Items)
	}
	return total
}

// TotalEighths returns the page-eighths total across all days.
func (s OneLinerSchedule) TotalEighths() int {
	total := 0
	for _, d := range s.Days {
		total += d.TotalEighths()
	}
	return total
}

// BuildOneLiner walks scenes in their given order and groups them into
// shoot days.  Order is a precondition: callers must supply scenes in
// stripboard order, the builder performs no sorting.
//
// Day breaks flush the pending scenes into a day; a break with nothing
// pending emits no day and does not advance the day number, so empty days
// never appear and numbering stays dense (1, 2, 3...).  Every break and
// every off-day advances the running calendar date by one day; a day's
// date is the running date at the moment its first scene is appended.
// Scenes without a scene number are skipped silently.
func BuildOneLiner(scenes []model.Scene, startDate time.Time, productionName string,
	isDayBreak, isOffDay func(model.Scene) bool) OneLinerSchedule {

	sched := OneLinerSchedule{
		ProductionName: productionName,
		GeneratedAt:    time.Now().UTC(),
	}

	dayNumber := 0
	currentDate := startDate
	var dayStartDate time.Time
	var items []OneLinerItem

	flush := func() {
		if len(items) == 0 {
			return
		}
		dayNumber++
		sched.Days = append(sched.Days, OneLinerDay{
			DayNumber: dayNumber,
			Date:      dayStartDate,
			Items:     items,
		})
		items = nil
	}

	for _, sc := range scenes {
		switch {
		case isDayBreak(sc):
			flush()
			currentDate = currentDate.AddDate(0, 0, 1)
		case isOffDay(sc):
			currentDate = currentDate.AddDate(0, 0, 1)
		default:
			if sc.Number == "" {
				continue
			}
			if len(items) == 0 {
				dayStartDate = currentDate
			}
			items = append(items, newOneLinerItem(sc))
		}
	}
	flush()
	return sched
}

// newOneLinerItem parses one scene into its display row.
func newOneLinerItem(sc model.Scene) OneLinerItem {
	intExt, set := ParseHeading(sc.Heading)
	if set == "" {
		set = "Untitled Scene"
	}
	notes := ""
	if sc.Notes != nil {
		notes = *sc.Notes
	}
	return OneLinerItem{
		SceneNumber: sc.Number,
		IntExt:      intExt,
		Set:         set,
		DayNight:    ParseTimeOfDay(sc.Heading),
		Pages:       FormatEighths(sc.PageEighths),
		PageEighths: sc.PageEighths,
		CastIDs:     sc.CastIDs,
		Location:    sc.Location,
		Notes:       notes,
	}
}
