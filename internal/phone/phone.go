// Package phone implements the Brazilian mobile numbering grammar used to
// validate and normalize contact numbers extracted from scraped content.
package phone

import "strings"

// validDDDs is the published Brazilian area-code table.
var validDDDs = map[string]bool{
	// São Paulo
	"11": true, "12": true, "13": true, "14": true, "15": true,
	"16": true, "17": true, "18": true, "19": true,
	// Rio de Janeiro
	"21": true, "22": true, "24": true,
	// Espírito Santo
	"27": true, "28": true,
	// Minas Gerais
	"31": true, "32": true, "33": true, "34": true, "35": true, "37": true, "38": true,
	// Paraná
	"41": true, "42": true, "43": true, "44": true, "45": true, "46": true,
	// Santa Catarina
	"47": true, "48": true, "49": true,
	// Rio Grande do Sul
	"51": true, "53": true, "54": true, "55": true,
	// Distrito Federal / Goiás / Tocantins
	"61": true, "62": true, "63": true, "64": true,
	// Mato Grosso / Mato Grosso do Sul
	"65": true, "66": true, "67": true,
	// Acre / Rondônia
	"68": true, "69": true,
	// Bahia / Sergipe
	"71": true, "73": true, "74": true, "75": true, "77": true, "79": true,
	// Pernambuco / Alagoas / Paraíba / Rio Grande do Norte
	"81": true, "82": true, "83": true, "84": true, "87": true,
	// Ceará / Piauí
	"85": true, "86": true, "88": true, "89": true,
	// Pará / Amazonas / Roraima / Amapá / Maranhão
	"91": true, "92": true, "93": true, "94": true, "95": true,
	"96": true, "97": true, "98": true, "99": true,
}

// knownFakes are placeholder numbers observed in the wild that pass the
// structural checks but are never real subscribers.
var knownFakes = map[string]bool{
	"99999999999": true,
	"11111111111": true,
	"00000000000": true,
	"12345678901": true,
	"98765432109": true,
	"99996666666": true,
}

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize converts a raw candidate into its country-qualified form
// ("55" + DDD + subscriber). It returns false when the candidate is not a
// plausible Brazilian mobile or landline number. Normalize is idempotent
// on its own output.
func Normalize(raw string) (string, bool) {
	digits := Digits(raw)

	// Local form without the country code.
	if (len(digits) == 10 || len(digits) == 11) && validDDDs[digits[:2]] {
		digits = "55" + digits
	}

	if len(digits) < 12 || len(digits) > 13 {
		return "", false
	}
	if !strings.HasPrefix(digits, "55") {
		return "", false
	}

	local := digits[2:]
	if !validDDDs[local[:2]] {
		return "", false
	}
	// Eleven significant digits means mobile, which always carries the
	// leading 9 on the subscriber part.
	if len(local) == 11 && local[2] != '9' {
		return "", false
	}

	if repeatedDigit(local) || knownFakes[local] {
		return "", false
	}
	return digits, true
}

// Valid reports whether raw normalizes to a plausible number.
func Valid(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}

func repeatedDigit(s string) bool {
	if s == "" {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func distinctDigits(s string) int {
	var seen [10]bool
	n := 0
	for i := 0; i < len(s); i++ {
		d := s[i] - '0'
		if d <= 9 && !seen[d] {
			seen[d] = true
			n++
		}
	}
	return n
}
