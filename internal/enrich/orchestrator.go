// Package enrich drives the per-stage batch enrichment loop: watermarked
// batch selection, per-record scraping and extraction, single-row status
// updates, and fixed pacing between outbound navigations.
package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/atendai/leadscout/internal/contact"
	"github.com/atendai/leadscout/internal/location"
	"github.com/atendai/leadscout/internal/model"
	"github.com/atendai/leadscout/internal/resilience"
	"github.com/atendai/leadscout/internal/scrape"
	"github.com/atendai/leadscout/internal/session"
	"github.com/atendai/leadscout/internal/store"
)

// ProfileSource scrapes one profile page into a snapshot.
type ProfileSource interface {
	Scrape(ctx context.Context, handle string) (*model.ProfileSnapshot, error)
}

// LinkSource scrapes an external link for contact material. Implementations
// report failures through the result's Reason field, never an error.
type LinkSource interface {
	Scrape(ctx context.Context, rawURL string) *scrape.PageContacts
}

// Config tunes the batch driver.
type Config struct {
	BatchSize         int
	RequestsPerSecond float64
	Retry             resilience.RetryConfig
}

// Summary reports one stage run.
type Summary struct {
	Stage     model.Stage
	Processed int
	Found     int
	None      int
	Failed    int
}

// Orchestrator walks pending leads through one enrichment stage at a time.
// The platform session is not safe for concurrent navigation, so records
// are processed strictly sequentially.
type Orchestrator struct {
	store    store.Store
	profiles ProfileSource
	links    LinkSource
	limiter  *rate.Limiter
	cfg      Config
}

func New(st store.Store, profiles ProfileSource, links LinkSource, cfg Config) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 0.2
	}
	return &Orchestrator{
		store:    st,
		profiles: profiles,
		links:    links,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		cfg:      cfg,
	}
}

// RunStage processes pending leads for one stage starting at the persisted
// watermark. Per-record scrape failures are recorded and skipped; only
// authentication and store errors abort the run. When the stage's backlog
// is exhausted the watermark is cleared so the next run rescans records
// that were left pending.
func (o *Orchestrator) RunStage(ctx context.Context, stage model.Stage) (*Summary, error) {
	if !stage.Valid() {
		return nil, eris.Errorf("enrich: unknown stage %q", stage)
	}
	summary := &Summary{Stage: stage}

	watermark, err := o.store.GetWatermark(ctx, stage)
	if err != nil {
		return summary, err
	}
	zap.L().Info("stage run starting",
		zap.String("stage", string(stage)),
		zap.Time("watermark", watermark))

	for {
		leads, err := o.store.ListLeadsForStage(ctx, stage, watermark, o.cfg.BatchSize)
		if err != nil {
			return summary, err
		}
		if len(leads) == 0 {
			break
		}

		for i := range leads {
			lead := &leads[i]
			if err := o.limiter.Wait(ctx); err != nil {
				return summary, eris.Wrap(err, "enrich: pacing interrupted")
			}

			status, err := o.processLead(ctx, stage, lead)
			if err != nil {
				return summary, err
			}
			summary.Processed++
			switch status {
			case model.StageStatusFound:
				summary.Found++
			case model.StageStatusNone:
				summary.None++
			default:
				summary.Failed++
			}

			watermark = lead.CreatedAt
			if err := o.store.SetWatermark(ctx, stage, watermark); err != nil {
				return summary, err
			}
		}

		// Fewer rows than requested means the backlog is drained.
		if len(leads) < o.cfg.BatchSize {
			break
		}
	}

	// A completed pass clears the cursor so leads left pending by
	// transient failures are revisited next run.
	if err := o.store.SetWatermark(ctx, stage, time.Time{}); err != nil {
		return summary, err
	}

	zap.L().Info("stage run finished",
		zap.String("stage", string(stage)),
		zap.Int("processed", summary.Processed),
		zap.Int("found", summary.Found),
		zap.Int("none", summary.None),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// processLead runs one stage for one lead. The returned status is the
// stage outcome; pending means the record was left for a later run. A
// non-nil error aborts the whole run.
func (o *Orchestrator) processLead(ctx context.Context, stage model.Stage, lead *model.Lead) (model.StageStatus, error) {
	switch stage {
	case model.StageProfile:
		return o.profileStage(ctx, lead)
	case model.StageTags:
		return o.tagsStage(ctx, lead)
	case model.StageBioContact:
		return o.bioContactStage(ctx, lead)
	case model.StageLinkContact:
		return o.linkContactStage(ctx, lead)
	}
	return "", eris.Errorf("enrich: unknown stage %q", stage)
}

func (o *Orchestrator) profileStage(ctx context.Context, lead *model.Lead) (model.StageStatus, error) {
	retryCfg := o.cfg.Retry
	retryCfg.OnRetry = resilience.RetryLogger("profile", lead.Handle)

	snap, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*model.ProfileSnapshot, error) {
		return o.profiles.Scrape(ctx, lead.Handle)
	})
	switch {
	case errors.Is(err, session.ErrAuthentication):
		return "", err
	case errors.Is(err, scrape.ErrProfileNotFound):
		return o.finish(ctx, lead, model.StageProfile, model.StageStatusNone)
	case err != nil:
		zap.L().Warn("profile scrape failed, leaving pending",
			zap.String("handle", lead.Handle),
			zap.Error(err))
		return model.StageStatusPending, nil
	}

	if err := o.store.ApplySnapshot(ctx, lead.ID, snap); err != nil {
		return "", err
	}
	if loc := location.Extract(snap.Biography, ""); !loc.IsZero() {
		if err := o.store.SetLocation(ctx, lead.ID, loc.City, loc.State); err != nil {
			return "", err
		}
	}
	return o.finish(ctx, lead, model.StageProfile, model.StageStatusFound)
}

// tagsStage harvests hashtags from the biography. Harvested tags are
// stored as parentless variations: candidates for a later discovery run
// rather than children of a searched topic tag.
func (o *Orchestrator) tagsStage(ctx context.Context, lead *model.Lead) (model.StageStatus, error) {
	tags := scrape.HashtagsFromText(lead.Biography)
	if len(tags) == 0 {
		return o.finish(ctx, lead, model.StageTags, model.StageStatusNone)
	}

	for _, tag := range tags {
		if _, err := o.store.UpsertTagVariation(ctx, model.TagVariation{
			Tag:      tag,
			Category: model.TagCategoryNiche,
		}); err != nil {
			return "", err
		}
		if err := o.store.IncrementTagLeadCount(ctx, "", tag); err != nil {
			return "", err
		}
	}
	return o.finish(ctx, lead, model.StageTags, model.StageStatusFound)
}

func (o *Orchestrator) bioContactStage(ctx context.Context, lead *model.Lead) (model.StageStatus, error) {
	records := contact.Extract(lead.Biography, "", nil, time.Now().UTC())
	return o.storeContacts(ctx, lead, model.StageBioContact, records)
}

func (o *Orchestrator) linkContactStage(ctx context.Context, lead *model.Lead) (model.StageStatus, error) {
	page := o.links.Scrape(ctx, lead.ExternalURL)
	if page != nil && page.Reason != "" {
		zap.L().Debug("external link yielded no page",
			zap.String("handle", lead.Handle),
			zap.String("url", lead.ExternalURL),
			zap.String("reason", page.Reason))
	}
	records := contact.Extract("", lead.ExternalURL, page, time.Now().UTC())
	return o.storeContacts(ctx, lead, model.StageLinkContact, records)
}

func (o *Orchestrator) storeContacts(ctx context.Context, lead *model.Lead, stage model.Stage, records []model.ContactRecord) (model.StageStatus, error) {
	if len(records) == 0 {
		return o.finish(ctx, lead, stage, model.StageStatusNone)
	}
	if _, err := o.store.AddContacts(ctx, lead.ID, records); err != nil {
		return "", err
	}
	if lead.PrimaryPhone == "" {
		if err := o.store.SetPrimaryPhone(ctx, lead.ID, contact.Primary(records)); err != nil {
			return "", err
		}
		lead.PrimaryPhone = contact.Primary(records)
	}
	// A fresh number can pin down a location the biography could not.
	if lead.City == "" && lead.State == "" {
		if loc := location.Extract(lead.Biography, lead.PrimaryPhone); !loc.IsZero() {
			if err := o.store.SetLocation(ctx, lead.ID, loc.City, loc.State); err != nil {
				return "", err
			}
			lead.City, lead.State = loc.City, loc.State
		}
	}
	return o.finish(ctx, lead, stage, model.StageStatusFound)
}

func (o *Orchestrator) finish(ctx context.Context, lead *model.Lead, stage model.Stage, status model.StageStatus) (model.StageStatus, error) {
	if err := o.store.SetStageStatus(ctx, lead.ID, stage, status); err != nil {
		return "", err
	}
	return status, nil
}
