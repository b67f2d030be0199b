package scrape

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// countSuffixes maps the platform's locale abbreviations to multipliers.
// Longer suffixes are matched first so "mil" is not read as "mi".
var countSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"mil", 1_000},
	{"kk", 1_000_000},
	{"mi", 1_000_000},
	{"k", 1_000},
	{"m", 1_000_000},
}

var thousandsDotPattern = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseCount converts a displayed counter string ("12 mil", "1,2 mi",
// "3.456") into an integer. Decimal commas and dot/space thousand
// separators follow the pt-BR display convention.
func ParseCount(raw string) (int64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	// The platform pads counters with narrow no-break spaces.
	s = strings.Map(func(r rune) rune {
		if r == '\u202f' || r == '\u00a0' {
			return ' '
		}
		return r
	}, s)

	multiplier := 1.0
	for _, cs := range countSuffixes {
		if strings.HasSuffix(s, cs.suffix) {
			multiplier = cs.multiplier
			s = strings.TrimSpace(strings.TrimSuffix(s, cs.suffix))
			break
		}
	}

	s = strings.ReplaceAll(s, " ", "")
	if thousandsDotPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return int64(math.Round(value * multiplier)), true
}
