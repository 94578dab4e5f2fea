package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworks/production-runner/internal/model"
)

func isDayBreak(sc model.Scene) bool { return sc.Kind == model.SceneKindDayBreak }
func isOffDay(sc model.Scene) bool   { return sc.Kind == model.SceneKindOffDay }

func scene(number, heading string, eighths int) model.Scene {
	return model.Scene{Number: number, Kind: model.SceneKindScene, Heading: heading, PageEighths: eighths}
}

func marker(kind string) model.Scene { return model.Scene{Kind: kind} }

var testStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// Empty day breaks never emit a day and never disturb the day numbering.
func TestBuildOneLinerSuppressesEmptyDays(t *testing.T) {
	scenes := []model.Scene{
		marker(model.SceneKindDayBreak),
		scene("1", "INT. KITCHEN - DAY", 8),
		marker(model.SceneKindDayBreak),
		marker(model.SceneKindDayBreak),
		scene("2", "EXT. ALLEY - NIGHT", 4),
	}
	sched := BuildOneLiner(scenes, testStart, "Test Pilot", isDayBreak, isOffDay)

	require.Len(t, sched.Days, 2)
	assert.Equal(t, 1, sched.Days[0].DayNumber)
	assert.Equal(t, 2, sched.Days[1].DayNumber)
	require.Len(t, sched.Days[0].Items, 1)
	require.Len(t, sched.Days[1].Items, 1)
	assert.Equal(t, "1", sched.Days[0].Items[0].SceneNumber)
	assert.Equal(t, "2", sched.Days[1].Items[0].SceneNumber)
}

// Off days contribute nothing but advance the running date, which is
// committed when the next day starts.
func TestBuildOneLinerOffDayAdvancesDate(t *testing.T) {
	scenes := []model.Scene{
		scene("1", "INT. KITCHEN - DAY", 8),
		marker(model.SceneKindOffDay),
		scene("2", "EXT. ALLEY - NIGHT", 4),
	}
	sched := BuildOneLiner(scenes, testStart, "Test Pilot", isDayBreak, isOffDay)

	require.Len(t, sched.Days, 1)
	day := sched.Days[0]
	require.Len(t, day.Items, 2)
	// The day started before the off-day marker, so its date is untouched.
	assert.Equal(t, testStart, day.Date)
	assert.Equal(t, 12, day.TotalEighths())
	assert.Equal(t, 2, day.SceneCount())
}

// A day break plus an off day push the following day's date by two.
func TestBuildOneLinerDatesAccumulate(t *testing.T) {
	scenes := []model.Scene{
		scene("1", "INT. KITCHEN - DAY", 8),
		marker(model.SceneKindDayBreak),
		marker(model.SceneKindOffDay),
		scene("2", "EXT. ALLEY - NIGHT", 4),
	}
	sched := BuildOneLiner(scenes, testStart, "Test Pilot", isDayBreak, isOffDay)

	require.Len(t, sched.Days, 2)
	assert.Equal(t, testStart, sched.Days[0].Date)
	assert.Equal(t, testStart.AddDate(0, 0, 2), sched.Days[1].Date)
}

func TestBuildOneLinerItemFields(t *testing.T) {
	notes := "stunt double"
	sc := model.Scene{
		Number:      "23A",
		Kind:        model.SceneKindScene,
		Heading:     "I/E CAR - DAY",
		PageEighths: 10,
		CastIDs:     "1,4,7",
		Location:    "5th & Main",
		Notes:       &notes,
	}
	sched := BuildOneLiner([]model.Scene{sc}, testStart, "Test Pilot", isDayBreak, isOffDay)

	require.Len(t, sched.Days, 1)
	require.Len(t, sched.Days[0].Items, 1)
	it := sched.Days[0].Items[0]
	assert.Equal(t, "23A", it.SceneNumber)
	assert.Equal(t, "I/E", it.IntExt)
	assert.Equal(t, "CAR", it.Set)
	assert.Equal(t, "DAY", it.DayNight)
	assert.Equal(t, "1 2/8", it.Pages)
	assert.Equal(t, 10, it.PageEighths)
	assert.Equal(t, "1,4,7", it.CastIDs)
	assert.Equal(t, "5th & Main", it.Location)
	assert.Equal(t, "stunt double", it.Notes)
}

func TestBuildOneLinerSkipsUnnumberedAndNamesUntitled(t *testing.T) {
	scenes := []model.Scene{
		scene("", "INT. VOID - DAY", 8), // no scene number: skipped
		scene("2", "INT. - DAY", 4),     // heading parses to an empty set
	}
	sched := BuildOneLiner(scenes, testStart, "Test Pilot", isDayBreak, isOffDay)

	require.Len(t, sched.Days, 1)
	require.Len(t, sched.Days[0].Items, 1)
	assert.Equal(t, "Untitled Scene", sched.Days[0].Items[0].Set)
}

func TestBuildOneLinerEmptyInput(t *testing.T) {
	sched := BuildOneLiner(nil, testStart, "Test Pilot", isDayBreak, isOffDay)
	assert.Empty(t, sched.Days)
	assert.Equal(t, 0, sched.TotalScenes())
	assert.Equal(t, 0, sched.TotalEighths())
}

func TestScheduleTotals(t *testing.T) {
	scenes := []model.Scene{
		scene("1", "INT. KITCHEN - DAY", 8),
		scene("2", "EXT. YARD - DAY", 3),
		marker(model.SceneKindDayBreak),
		scene("3", "EXT. ALLEY - NIGHT", 5),
	}
	sched := BuildOneLiner(scenes, testStart, "Test Pilot", isDayBreak, isOffDay)
	assert.Equal(t, 3, sched.TotalScenes())
	assert.Equal(t, 16, sched.TotalEighths())
}
