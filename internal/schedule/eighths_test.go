package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEighths(t *testing.T) {
	tests := []struct {
		eighths int
		want    string
	}{
		{0, "0"},
		{1, "1/8"},
		{7, "7/8"},
		{8, "1"},
		{10, "1 2/8"},
		{16, "2"},
		{19, "2 3/8"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEighths(tt.eighths), "eighths=%d", tt.eighths)
	}
}

// Formatting then parsing must round-trip every value back to itself.
func TestEighthsRoundTrip(t *testing.T) {
	for e := 0; e < 10000; e++ {
		got, err := ParseEighths(FormatEighths(e))
		require.NoError(t, err, "eighths=%d", e)
		require.Equal(t, e, got)
	}
}

func TestParseEighthsInvalid(t *testing.T) {
	for _, s := range []string{"", "  ", "1/4", "2 9/8", "-1", "1 2", "x/8", "1  2/8x"} {
		_, err := ParseEighths(s)
		assert.Error(t, err, "input %q", s)
	}
}
