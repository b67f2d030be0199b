package phone

import (
	"net/url"
	"regexp"
	"strings"
)

// contactKeywords mark a text line as contact-bearing. A number found on a
// keyword line is a materially stronger signal than a bare pattern match.
var contactKeywords = []string{
	"telefone", "tel", "whatsapp", "wpp", "zap", "contato", "fone",
	"celular", "ligar", "chamar", "phone", "contact", "call", "fale",
}

// brPhonePattern matches Brazilian phone shapes with optional country code
// and area code, mobile or landline subscriber part.
var brPhonePattern = regexp.MustCompile(`(?:\+?55\s?)?(?:\(?\d{2}\)?[\s.]?)(?:9\s?\d{4}[-\s.]?\d{4}|\d{4}[-\s.]?\d{4})`)

var messagingLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`wa\.me/\+?(\d{10,15})`),
	regexp.MustCompile(`/send/?\?(?:[^#]*&)?phone=\+?(\d{10,15})`),
	regexp.MustCompile(`whatsapp://send\?phone=\+?(\d+)`),
}

// Candidate is one phone match found in free text.
type Candidate struct {
	Number    string // normalized
	Qualified bool   // matched on a line carrying a contact keyword
}

// ExtractFromText scans free text line by line for phone candidates.
// Matches on lines containing a contact keyword are flagged Qualified.
// Invalid candidates are dropped, never surfaced. Free-text matches with
// fewer than 5 distinct subscriber digits are dropped as low-signal; that
// heuristic never applies to numbers a user deliberately encoded in a
// messaging link.
func ExtractFromText(text string) []Candidate {
	if text == "" {
		return nil
	}

	var out []Candidate
	seen := make(map[string]int) // number -> index in out

	for _, line := range strings.Split(text, "\n") {
		qualified := lineHasKeyword(line)
		for _, match := range brPhonePattern.FindAllString(line, -1) {
			normalized, ok := Normalize(match)
			if !ok {
				continue
			}
			if distinctDigits(normalized[2:]) < 5 {
				continue
			}
			if i, dup := seen[normalized]; dup {
				if qualified {
					out[i].Qualified = true
				}
				continue
			}
			seen[normalized] = len(out)
			out = append(out, Candidate{Number: normalized, Qualified: qualified})
		}
	}
	return out
}

func lineHasKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range contactKeywords {
		idx := strings.Index(lower, kw)
		for idx >= 0 {
			if isWordBoundary(lower, idx, len(kw)) {
				return true
			}
			next := strings.Index(lower[idx+1:], kw)
			if next < 0 {
				break
			}
			idx += 1 + next
		}
	}
	return false
}

func isWordBoundary(s string, start, length int) bool {
	if start > 0 && isAlnum(s[start-1]) {
		return false
	}
	end := start + length
	if end < len(s) && isAlnum(s[end]) {
		return false
	}
	return true
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// FromMessagingURL decodes a number directly embedded in a messaging link
// (wa.me path, api.whatsapp.com send query, whatsapp:// scheme). The link
// itself encodes the number, so no navigation is involved.
func FromMessagingURL(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	for _, pat := range messagingLinkPatterns {
		if m := pat.FindStringSubmatch(decoded); m != nil {
			if normalized, ok := Normalize(m[1]); ok {
				return normalized, true
			}
		}
	}
	return "", false
}

// IsMessagingURL reports whether raw looks like a direct-message contact
// link, whether or not it decodes to a valid number.
func IsMessagingURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "wa.me/") ||
		strings.Contains(lower, "api.whatsapp.com/send") ||
		strings.Contains(lower, "whatsapp://send") ||
		strings.Contains(lower, "send?phone=") ||
		strings.Contains(lower, "send/?phone=")
}
