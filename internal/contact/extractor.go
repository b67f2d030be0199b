// Package contact merges phone candidates from every extraction source
// into one deduplicated, provenance-tagged list.
package contact

import (
	"sort"
	"time"

	"github.com/atendai/leadscout/internal/model"
	"github.com/atendai/leadscout/internal/phone"
	"github.com/atendai/leadscout/internal/scrape"
)

// Extract resolves contact numbers from the biography text, the profile's
// external link, and the scraped external page, in that order of trust.
// A direct-encoding link wins over a context-qualified bio match, which
// wins over an unqualified free-text match. Invalid candidates are
// discarded outright, and duplicates collapse onto the highest-precedence
// source.
func Extract(bio, externalLink string, page *scrape.PageContacts, now time.Time) []model.ContactRecord {
	type candidate struct {
		number string
		source model.ContactSource
	}
	var candidates []candidate

	if number, ok := phone.FromMessagingURL(externalLink); ok {
		candidates = append(candidates, candidate{number, model.SourceDirectLink})
	}

	for _, c := range phone.ExtractFromText(bio) {
		source := model.SourceBioText
		if c.Qualified {
			source = model.SourceBioTextQualified
		}
		candidates = append(candidates, candidate{c.Number, source})
	}

	if page != nil {
		for _, p := range page.Phones {
			candidates = append(candidates, candidate{p.Number, p.Source})
		}
	}

	best := make(map[string]model.ContactSource)
	order := make([]string, 0, len(candidates))
	for _, c := range candidates {
		normalized, ok := phone.Normalize(c.number)
		if !ok {
			continue
		}
		existing, seen := best[normalized]
		if !seen {
			best[normalized] = c.source
			order = append(order, normalized)
			continue
		}
		if c.source.Precedence() < existing.Precedence() {
			best[normalized] = c.source
		}
	}

	records := make([]model.ContactRecord, 0, len(order))
	for _, number := range order {
		records = append(records, model.ContactRecord{
			Number:      number,
			Source:      best[number],
			ExtractedAt: now,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Source.Precedence() < records[j].Source.Precedence()
	})
	// The qualified bio distinction only drives ordering; it is stored
	// as plain bio-text.
	for i := range records {
		records[i].Source = records[i].Source.Persisted()
	}
	return records
}

// Primary picks the number to promote onto the lead, the first record in
// precedence order.
func Primary(records []model.ContactRecord) string {
	if len(records) == 0 {
		return ""
	}
	return records[0].Number
}
