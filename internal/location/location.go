// Package location extracts a Brazilian city and state from free-form
// biography text and, as a fallback, from a phone number's area code.
package location

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Confidence ranks how trustworthy an extraction source is.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// Location is one extracted city/state pair with its provenance.
type Location struct {
	City       string
	State      string
	Source     string
	Confidence Confidence
}

// IsZero reports whether nothing was extracted.
func (l Location) IsZero() bool {
	return l.City == "" && l.State == ""
}

const maxCityLen = 100

var (
	// Professional registry codes almost always carry the practitioner's
	// UF (CRM/SP, OAB-RJ, CREF 146803-G/SP).
	registryUFAfter  = regexp.MustCompile(`(?i)\b(?:CRM|CRO|CRP|CRN|COREN|CONFEF|CRFa|CREF(?:ITO)?|OAB)[\s/:.\-]*(?:\d+[\s/:.\-]*)?G?[\s/:.\-]*([A-Za-z]{2})\b`)
	registryUFBefore = regexp.MustCompile(`(?i)\b(?:CRM|OAB)[\s/:.\-]*([A-Za-z]{2})[\s/:.\-]*\d`)

	emojiUFPattern    = regexp.MustCompile(`[📍🏠]\s*([A-Za-z]{2})\b`)
	emojiPlacePattern = regexp.MustCompile(`[📍🏠]\s*([^|\n,]+?)(?:\s*[-/]\s*([A-Za-z]{2}))?\s*(?:[|\n,]|$)`)

	cityDashUFPattern    = regexp.MustCompile(`([\p{L}][\p{L} ]+?) *[-/|] *([A-Za-z]{2})\b`)
	registryTokenPattern = regexp.MustCompile(`(?i)\b(?:CRM|CRO|CRP|CRN|COREN|CONFEF|CRFa|CREF(?:ITO)?|OAB)\b`)
	servicePattern       = regexp.MustCompile(`(?i)\b(?:atendimento|atendo|presencial|clínica|consultório|escritório|loja|studio|espaço) +em +([\p{L}][\p{L} ]+?)( *[-/|,.\n]|$)`)
	isolatedUFPattern    = regexp.MustCompile(`(?:^|[\s|,\-])([A-Z]{2})(?:$|[\s|,\-])`)
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// sortedCityKeys holds free-text lookup keys longest first so that
// "sao jose dos campos" wins over "sao jose".
var sortedCityKeys = func() []string {
	keys := make([]string, 0, len(cityToState))
	for k := range cityToState {
		if len(k) > 2 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

func removeAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Extract runs every extraction strategy over the bio and phone, merges
// the results by confidence and completeness, and returns the best
// available location. A zero Location means nothing usable was found.
func Extract(bio, phoneNumber string) Location {
	var results []Location

	if bio != "" {
		if state := fromRegistry(bio); state != "" {
			results = append(results, Location{State: state, Source: "professional-registry", Confidence: ConfidenceHigh})
		}
		if loc, ok := fromEmoji(bio); ok {
			results = append(results, loc)
		}
		if loc, ok := fromTextPatterns(bio); ok {
			results = append(results, loc)
		}
		if loc, ok := fromKnownCity(bio); ok {
			results = append(results, loc)
		}
	}
	if phoneNumber != "" {
		if loc, ok := fromPhoneDDD(phoneNumber); ok {
			results = append(results, loc)
		}
	}

	if len(results) == 0 {
		return Location{}
	}

	// Strategy precedence decides first; completeness only breaks ties,
	// so a generic text match never outranks a registry extraction.
	sort.SliceStable(results, func(i, j int) bool {
		if sourceRank[results[i].Source] != sourceRank[results[j].Source] {
			return sourceRank[results[i].Source] < sourceRank[results[j].Source]
		}
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return completeness(results[i]) > completeness(results[j])
	})

	best := results[0]
	// Borrow the missing half from a lower-ranked result.
	for _, r := range results[1:] {
		if best.City == "" && r.City != "" {
			best.City = r.City
		}
		if best.State == "" && r.State != "" {
			best.State = r.State
		}
	}
	if best.City != "" && best.State == "" {
		best.State = InferState(best.City)
	}
	if len(best.City) > maxCityLen {
		cut := maxCityLen
		for cut > 0 && !utf8.RuneStart(best.City[cut]) {
			cut--
		}
		best.City = strings.TrimSpace(best.City[:cut])
	}
	return best
}

// sourceRank orders extraction strategies by trust: registry codes, then
// emoji markers, then text patterns, then the city table, then DDD.
var sourceRank = map[string]int{
	"professional-registry": 0,
	"emoji-uf":              1,
	"emoji-city":            1,
	"text-pattern":          2,
	"text-city-inferred":    2,
	"text-uf-isolated":      2,
	"known-city":            3,
	"phone-ddd":             4,
}

func completeness(l Location) int {
	n := 0
	if l.City != "" {
		n++
	}
	if l.State != "" {
		n++
	}
	return n
}

func fromRegistry(text string) string {
	for _, pat := range []*regexp.Regexp{registryUFAfter, registryUFBefore} {
		if m := pat.FindStringSubmatch(text); m != nil {
			uf := strings.ToUpper(m[1])
			if brazilianStates[uf] {
				return uf
			}
		}
	}
	return ""
}

func fromEmoji(text string) (Location, bool) {
	if m := emojiUFPattern.FindStringSubmatch(text); m != nil {
		uf := strings.ToUpper(m[1])
		if brazilianStates[uf] {
			return Location{State: uf, Source: "emoji-uf", Confidence: ConfidenceHigh}, true
		}
	}
	if m := emojiPlacePattern.FindStringSubmatch(text); m != nil {
		city := strings.TrimSpace(m[1])
		if city == "" {
			return Location{}, false
		}
		uf := strings.ToUpper(strings.TrimSpace(m[2]))
		if !brazilianStates[uf] {
			uf = InferState(city)
		}
		conf := ConfidenceMedium
		if uf != "" {
			conf = ConfidenceHigh
		}
		return Location{City: city, State: uf, Source: "emoji-city", Confidence: conf}, true
	}
	return Location{}, false
}

func fromTextPatterns(text string) (Location, bool) {
	if m := cityDashUFPattern.FindStringSubmatch(text); m != nil {
		uf := strings.ToUpper(m[2])
		if brazilianStates[uf] {
			city := strings.TrimSpace(m[1])
			// "OAB/RJ" and kin are registry references, not city names.
			if len(city) <= 2 || registryTokenPattern.MatchString(city) {
				city = ""
			}
			return Location{City: city, State: uf, Source: "text-pattern", Confidence: ConfidenceHigh}, true
		}
	}
	if m := servicePattern.FindStringSubmatch(text); m != nil {
		city := strings.TrimSpace(m[1])
		if state := InferState(city); state != "" {
			return Location{City: city, State: state, Source: "text-city-inferred", Confidence: ConfidenceMedium}, true
		}
	}
	if m := isolatedUFPattern.FindStringSubmatch(text); m != nil {
		uf := m[1]
		if brazilianStates[uf] {
			return Location{State: uf, Source: "text-uf-isolated", Confidence: ConfidenceMedium}, true
		}
	}
	return Location{}, false
}

func fromKnownCity(text string) (Location, bool) {
	normalized := removeAccents(strings.ToLower(text))
	for _, key := range sortedCityKeys {
		if containsWord(normalized, key) {
			return Location{
				City:       titleCase(key),
				State:      cityToState[key],
				Source:     "known-city",
				Confidence: ConfidenceHigh,
			}, true
		}
	}
	return Location{}, false
}

func fromPhoneDDD(phoneNumber string) (Location, bool) {
	digits := digitsOnly(phoneNumber)
	var ddd string
	switch {
	case strings.HasPrefix(digits, "55") && len(digits) >= 12:
		ddd = digits[2:4]
	case len(digits) >= 10:
		ddd = digits[:2]
	default:
		return Location{}, false
	}
	loc, ok := dddToLocation[ddd]
	if !ok {
		return Location{}, false
	}
	return Location{City: loc.City, State: loc.State, Source: "phone-ddd", Confidence: ConfidenceMedium}, true
}

// InferState resolves a UF from a city name via the known-city table,
// falling back to a prefix match for truncated inputs.
func InferState(city string) string {
	key := removeAccents(strings.ToLower(strings.TrimSpace(city)))
	if key == "" {
		return ""
	}
	if state, ok := cityToState[key]; ok {
		return state
	}
	for _, known := range sortedCityKeys {
		if strings.HasPrefix(key, known) || strings.HasPrefix(known, key) {
			return cityToState[known]
		}
	}
	return ""
}

func containsWord(text, word string) bool {
	idx := strings.Index(text, word)
	for idx >= 0 {
		beforeOK := idx == 0 || !isLetter(text[idx-1])
		end := idx + len(word)
		afterOK := end >= len(text) || !isLetter(text[end])
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(text[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 2 || i == 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
