package model

import "time"

// ContactSource records which extraction path produced a contact number.
type ContactSource string

const (
	// SourceDirectLink is a number decoded straight from a messaging URL.
	SourceDirectLink ContactSource = "direct-link"
	// SourceBioTextQualified is a bio match near a contact keyword.
	SourceBioTextQualified ContactSource = "bio-text-qualified"
	// SourceBioText is a bare bio pattern match.
	SourceBioText ContactSource = "bio-text"
	// SourceLinkPageContext is a number found on a crawled external page.
	SourceLinkPageContext ContactSource = "link-page-context"
	// SourceRedirectCodeLink is a number recovered by resolving a short
	// redirect-code link.
	SourceRedirectCodeLink ContactSource = "redirect-code-link"
)

// Precedence orders sources for conflict resolution; lower wins.
func (s ContactSource) Precedence() int {
	switch s {
	case SourceDirectLink:
		return 0
	case SourceBioTextQualified:
		return 1
	case SourceBioText:
		return 2
	case SourceLinkPageContext:
		return 3
	case SourceRedirectCodeLink:
		return 4
	}
	return 5
}

// Persisted folds the qualified bio variant into its stored form. The
// qualified distinction only matters for in-memory precedence.
func (s ContactSource) Persisted() ContactSource {
	if s == SourceBioTextQualified {
		return SourceBioText
	}
	return s
}

// ContactRecord is one normalized contact number attributed to a lead.
// The list owned by a lead is append-only and deduplicated by number.
type ContactRecord struct {
	ID          string        `json:"id"`
	LeadID      string        `json:"lead_id"`
	Number      string        `json:"number"` // normalized, country-qualified
	Source      ContactSource `json:"source"`
	ExtractedAt time.Time     `json:"extracted_at"`
}
