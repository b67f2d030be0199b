package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/atendai/leadscout/internal/model"
)

// Store defines the persistence interface for the enrichment engine.
// All writes are single-record upserts; reads support filter-by-stage
// plus created_at watermark pagination.
type Store interface {
	// Leads
	UpsertLead(ctx context.Context, handle string) (*model.Lead, error)
	GetLeadByHandle(ctx context.Context, handle string) (*model.Lead, error)
	ListLeadsForStage(ctx context.Context, stage model.Stage, after time.Time, limit int) ([]model.Lead, error)
	SetStageStatus(ctx context.Context, leadID string, stage model.Stage, status model.StageStatus) error
	ResetStage(ctx context.Context, stage model.Stage) (int64, error)
	ApplySnapshot(ctx context.Context, leadID string, snap *model.ProfileSnapshot) error
	SetLocation(ctx context.Context, leadID, city, state string) error
	SetPrimaryPhone(ctx context.Context, leadID, number string) error

	// Contacts (append-only, deduplicated by normalized number)
	AddContacts(ctx context.Context, leadID string, records []model.ContactRecord) (int, error)
	ListContacts(ctx context.Context, leadID string) ([]model.ContactRecord, error)

	// Tag variations
	UpsertTagVariation(ctx context.Context, v model.TagVariation) (*model.TagVariation, error)
	ListTagVariations(ctx context.Context, parent string) ([]model.TagVariation, error)
	IncrementTagLeadCount(ctx context.Context, parent, tag string) error

	// Watermarks
	GetWatermark(ctx context.Context, stage model.Stage) (time.Time, error)
	SetWatermark(ctx context.Context, stage model.Stage, watermark time.Time) error

	// Run status summaries
	StageCounts(ctx context.Context) (map[model.Stage]map[model.StageStatus]int64, error)

	// Session artifacts
	LoadSessionArtifact(ctx context.Context, key string) ([]byte, error)
	SaveSessionArtifact(ctx context.Context, key string, payload []byte) error
	DeleteSessionArtifact(ctx context.Context, key string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// stageColumn maps a stage to its status column. The mapping doubles as
// validation before stage names are interpolated into SQL.
func stageColumn(stage model.Stage) (string, error) {
	switch stage {
	case model.StageProfile:
		return "profile_status", nil
	case model.StageTags:
		return "tags_status", nil
	case model.StageBioContact:
		return "bio_contact_status", nil
	case model.StageLinkContact:
		return "link_contact_status", nil
	}
	return "", eris.Errorf("store: unknown stage %q", stage)
}

// stageSourceFilter is the extra predicate requiring the stage's input
// field to be present. Stages without an input requirement return "".
func stageSourceFilter(stage model.Stage) string {
	switch stage {
	case model.StageTags, model.StageBioContact:
		return "biography <> ''"
	case model.StageLinkContact:
		return "external_url <> ''"
	}
	return ""
}
