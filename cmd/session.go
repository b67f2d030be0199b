package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/atendai/leadscout/internal/model"
	"github.com/atendai/leadscout/internal/scrape"
	"github.com/atendai/leadscout/internal/session"
	"github.com/atendai/leadscout/internal/store"
)

func newSessionManager(st store.Store) *session.Manager {
	return session.New(session.Config{
		BaseURL:      cfg.Platform.BaseURL,
		Headless:     cfg.Browser.Headless,
		UserAgent:    cfg.Browser.UserAgent,
		Username:     cfg.Platform.Username,
		Password:     cfg.Platform.Password,
		LoginTimeout: cfg.Platform.LoginTimeout(),
		ArtifactKey:  cfg.Platform.SessionKey,
	}, st)
}

// acquireWithReauth acquires an authenticated tab, invalidating the stored
// session and re-logging-in a bounded number of times when authentication
// fails.
func acquireWithReauth(ctx context.Context, mgr *session.Manager) (context.Context, context.CancelFunc, error) {
	retries := cfg.Enrich.MaxAuthRetries
	for attempt := 0; ; attempt++ {
		pageCtx, cancel, err := mgr.AcquirePage(ctx)
		if err == nil {
			return pageCtx, cancel, nil
		}
		if !errors.Is(err, session.ErrAuthentication) || attempt >= retries {
			return nil, nil, err
		}
		zap.L().Warn("authentication failed, invalidating stored session",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if ierr := mgr.Invalidate(ctx); ierr != nil {
			return nil, nil, ierr
		}
	}
}

// sessionProfiles runs each profile scrape in a fresh tab of the shared
// authenticated browser.
type sessionProfiles struct {
	mgr     *session.Manager
	scraper *scrape.ProfileScraper
}

func newSessionProfiles(mgr *session.Manager) *sessionProfiles {
	return &sessionProfiles{
		mgr:     mgr,
		scraper: scrape.NewProfileScraper(cfg.Platform.BaseURL, cfg.Scrape.Timeout()),
	}
}

func (s *sessionProfiles) Scrape(ctx context.Context, handle string) (*model.ProfileSnapshot, error) {
	pageCtx, cancel, err := acquireWithReauth(ctx, s.mgr)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return s.scraper.Scrape(pageCtx, handle)
}

// sessionTags runs tag discovery in the shared authenticated browser.
type sessionTags struct {
	mgr   *session.Manager
	scout *scrape.TagScout
}

func newSessionTags(mgr *session.Manager) *sessionTags {
	scout := scrape.NewTagScout(cfg.Platform.BaseURL, cfg.Scrape.Timeout())
	if cfg.Scrape.MaxTagSuggestions > 0 {
		scout.MaxSuggestions = cfg.Scrape.MaxTagSuggestions
	}
	return &sessionTags{mgr: mgr, scout: scout}
}

func (s *sessionTags) Discover(ctx context.Context, tag string) ([]model.TagVariation, error) {
	pageCtx, cancel, err := acquireWithReauth(ctx, s.mgr)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return s.scout.Discover(pageCtx, tag)
}

func newLinkScraper() *scrape.LinkScraper {
	return scrape.NewLinkScraper(scrape.LinkConfig{
		Headless:           cfg.Browser.Headless,
		UserAgent:          cfg.Browser.UserAgent,
		Timeout:            cfg.Scrape.Timeout(),
		Workers:            cfg.Scrape.LinkWorkers,
		RequestsPerSecond:  cfg.Scrape.RequestsPerSecond,
		MaxAggregatorLinks: cfg.Scrape.MaxAggregatorLinks,
	})
}
