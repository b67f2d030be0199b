package model

import "time"

// StageStatus represents the outcome of one enrichment stage for a lead.
// A stage starts pending and is terminal once set to found or none.
type StageStatus string

const (
	StageStatusPending StageStatus = "pending"
	StageStatusFound   StageStatus = "found"
	StageStatusNone    StageStatus = "none"
)

// Stage identifies one enrichment stage in the batch driver.
type Stage string

const (
	StageProfile     Stage = "profile"
	StageTags        Stage = "tags"
	StageBioContact  Stage = "bio-contact"
	StageLinkContact Stage = "link-contact"
)

// Stages lists every enrichment stage in driver order.
var Stages = []Stage{StageProfile, StageTags, StageBioContact, StageLinkContact}

// Valid reports whether s names a known stage.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Lead is one discovered profile. The handle is unique and immutable;
// CreatedAt is the resumability watermark for batch enrichment.
type Lead struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	Biography   string `json:"biography,omitempty"`
	ExternalURL string `json:"external_url,omitempty"` // decoded, never the platform redirect form
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	Posts       int64  `json:"posts"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	IsBusiness  bool   `json:"is_business"`
	Category    string `json:"category,omitempty"`
	Email       string `json:"email,omitempty"`

	PrimaryPhone string `json:"primary_phone,omitempty"`

	ProfileStatus     StageStatus `json:"profile_status"`
	TagsStatus        StageStatus `json:"tags_status"`
	BioContactStatus  StageStatus `json:"bio_contact_status"`
	LinkContactStatus StageStatus `json:"link_contact_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusFor returns the lead's status for the given stage.
func (l *Lead) StatusFor(stage Stage) StageStatus {
	switch stage {
	case StageProfile:
		return l.ProfileStatus
	case StageTags:
		return l.TagsStatus
	case StageBioContact:
		return l.BioContactStatus
	case StageLinkContact:
		return l.LinkContactStatus
	}
	return ""
}

// ProfileSnapshot is the output of a single profile scrape. Every field
// except Handle may be empty when the corresponding read failed.
type ProfileSnapshot struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	Biography   string `json:"biography,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	Posts       int64  `json:"posts"`
	IsBusiness  bool   `json:"is_business"`
	Category    string `json:"category,omitempty"`
	Email       string `json:"email,omitempty"`
}
