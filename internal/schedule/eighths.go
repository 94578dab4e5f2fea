package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatEighths renders a page length in eighths of a page as the industry
// string form: 0 → "0", 12 → "1 4/8", 8 → "1", 3 → "3/8".  Negative input
// is undefined and not guarded.
func FormatEighths(eighths int) string {
	if eighths == 0 {
		return "0"
	}
	whole := eighths / 8
	rem := eighths % 8
	switch {
	case whole > 0 && rem > 0:
		return fmt.Sprintf("%d %d/8", whole, rem)
	case whole > 0:
		return strconv.Itoa(whole)
	default:
		return fmt.Sprintf("%d/8", rem)
	}
}

// ParseEighths is the inverse of FormatEighths.  It accepts "0", "N",
// "R/8" and "N R/8" and returns the total number of eighths.  Any other
// shape is an error.
func ParseEighths(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty page length")
	}
	whole := 0
	frac := s
	if i := strings.IndexByte(s, ' '); i >= 0 {
		w, err := strconv.Atoi(s[:i])
		if err != nil || w < 0 {
			return 0, fmt.Errorf("invalid page length %q", s)
		}
		whole = w
		frac = strings.TrimSpace(s[i+1:])
	}
	if strings.Contains(frac, "/") {
		num, denom, ok := strings.Cut(frac, "/")
		if !ok || denom != "8" {
			return 0, fmt.Errorf("invalid page length %q", s)
		}
		r, err := strconv.Atoi(num)
		if err != nil || r < 0 || r > 7 {
			return 0, fmt.Errorf("invalid page length %q", s)
		}
		return whole*8 + r, nil
	}
	// No fraction: the whole string must be the whole-page count.
	if whole != 0 {
		return 0, fmt.Errorf("invalid page length %q", s)
	}
	w, err := strconv.Atoi(frac)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("invalid page length %q", s)
	}
	return w * 8, nil
}
