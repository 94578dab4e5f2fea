// Package schedule contains the pure schedule-construction logic: scene
// heading parsing, page-length formatting, one-liner schedule building and
// the Day-Out-of-Days report model.  Everything in this package operates on
// in-memory values and performs no I/O; persistence and HTTP live in the
// repository and handler packages.
package schedule

import "strings"

// headingPrefix maps a slugline prefix to its normalized INT/EXT code.
// Matching is case-insensitive and longest-prefix-first, so the combined
// forms ("INT./EXT.") are listed before the plain ones.
type headingPrefix struct {
	prefix string // slugline prefix to match, upper-cased
	code   string // normalized code: "I/E", "INT" or "EXT"
}

var headingPrefixes = []headingPrefix{
	{"INT./EXT.", "I/E"},
	{"INT/EXT", "I/E"},
	{"I/E", "I/E"},
	{"INT.", "INT"},
	{"INT ", "INT"},
	{"EXT.", "EXT"},
	{"EXT ", "EXT"},
}

// timeOfDaySuffixes are stripped from the tail of a heading after prefix
// removal.  The set is fixed; anything else stays part of the set name.
var timeOfDaySuffixes = []string{
	" - DAY",
	" - NIGHT",
	" - DAWN",
	" - DUSK",
	" - LATER",
	" - CONTINUOUS",
	" - MOMENTS LATER",
}

// ParseHeading normalizes a free-text scene heading into its INT/EXT code
// and set description.  An unrecognized prefix yields an empty code and the
// suffix-stripped heading as the description; there is no fuzzy matching.
// An empty description is returned as-is — substituting a placeholder such
// as "Untitled Scene" is the caller's concern.
func ParseHeading(heading string) (intExt, set string) {
	s := strings.TrimSpace(heading)
	upper := strings.ToUpper(s)

	for _, p := range headingPrefixes {
		if strings.HasPrefix(upper, p.prefix) {
			intExt = p.code
			s = s[len(p.prefix):]
			upper = upper[len(p.prefix):]
			break
		}
	}

	// Strip one trailing time-of-day suffix, if present.
	for _, suf := range timeOfDaySuffixes {
		if strings.HasSuffix(upper, suf) {
			s = s[:len(s)-len(suf)]
			break
		}
	}

	// Drop a single leading separator left over from the prefix.
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '-' || s[0] == '.') {
		s = s[1:]
	}
	return intExt, strings.TrimSpace(s)
}

// ParseTimeOfDay returns the day/night code of a heading ("DAY", "NIGHT",
// "DAWN", "DUSK", "LATER", "CONTINUOUS" or "MOMENTS LATER"), or an empty
// string when the heading carries no recognized suffix.
func ParseTimeOfDay(heading string) string {
	upper := strings.ToUpper(strings.TrimSpace(heading))
	for _, suf := range timeOfDaySuffixes {
		if strings.HasSuffix(upper, suf) {
			return strings.TrimPrefix(suf, " - ")
		}
	}
	return ""
}
