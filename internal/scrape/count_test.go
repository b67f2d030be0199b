package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	cases := map[string]int64{
		"12 mil":  12_000,
		"1,2 mi":  1_200_000,
		"3,4 m":   3_400_000,
		"27k":     27_000,
		"1,5mil":  1_500,
		"842":     842,
		"12.345":  12_345,
		"1.234.567": 1_234_567,
		"0":       0,
	}
	for raw, want := range cases {
		got, ok := ParseCount(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseCountNarrowSpace(t *testing.T) {
	got, ok := ParseCount("12\u202fmil")
	require.True(t, ok)
	assert.Equal(t, int64(12_000), got)
}

func TestParseCountInvalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "mil", "-", "seguidores"} {
		_, ok := ParseCount(raw)
		assert.False(t, ok, raw)
	}
}
