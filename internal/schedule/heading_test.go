package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeading(t *testing.T) {
	tests := []struct {
		heading string
		intExt  string
		set     string
	}{
		{"INT. KITCHEN - DAY", "INT", "KITCHEN"},
		{"EXT. ALLEY - NIGHT", "EXT", "ALLEY"},
		{"I/E CAR - DAY", "I/E", "CAR"},
		{"KITCHEN", "", "KITCHEN"},
		{"INT./EXT. DINER - DUSK", "I/E", "DINER"},
		{"INT/EXT GARAGE", "I/E", "GARAGE"},
		{"int. basement - night", "INT", "basement"},
		{"EXT ROOFTOP - MOMENTS LATER", "EXT", "ROOFTOP"},
		{"INT. HALLWAY - CONTINUOUS", "INT", "HALLWAY"},
		{"INT. - STAIRWELL - LATER", "INT", "STAIRWELL"},
		{"", "", ""},
		{"   ", "", ""},
		{"BACKYARD - DAWN", "", "BACKYARD"},
	}
	for _, tt := range tests {
		intExt, set := ParseHeading(tt.heading)
		assert.Equal(t, tt.intExt, intExt, "intExt for %q", tt.heading)
		assert.Equal(t, tt.set, set, "set for %q", tt.heading)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"INT. KITCHEN - DAY", "DAY"},
		{"EXT. ALLEY - NIGHT", "NIGHT"},
		{"INT. VAULT - MOMENTS LATER", "MOMENTS LATER"},
		{"KITCHEN", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTimeOfDay(tt.heading), "heading %q", tt.heading)
	}
}
