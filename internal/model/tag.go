package model

import "time"

// TagCategory buckets a tag variation by estimated content volume.
type TagCategory string

const (
	TagCategoryNiche TagCategory = "niche"
	TagCategoryMid   TagCategory = "mid"
	TagCategoryBroad TagCategory = "broad"
)

// TagVariation is a related tag discovered from a parent topic tag.
// Rows are upserted by (parent, tag); re-discovery re-scores and bumps
// RescrapeCount, never duplicates.
type TagVariation struct {
	ID            string      `json:"id"`
	Parent        string      `json:"parent"`
	Tag           string      `json:"tag"`
	Volume        int64       `json:"volume"`
	Priority      int         `json:"priority"` // 0-100
	Category      TagCategory `json:"category"`
	DiscoveredAt  time.Time   `json:"discovered_at"`
	RescrapeCount int         `json:"rescrape_count"`
	LeadCount     int64       `json:"lead_count"`
}
