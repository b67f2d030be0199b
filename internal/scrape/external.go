package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/atendai/leadscout/internal/model"
	"github.com/atendai/leadscout/internal/phone"
)

// Failure reasons reported through PageContacts.Reason.
const (
	ReasonHeadlessRedirect = "headless-redirect-unsupported"
	ReasonNavigationFailed = "navigation-failed"
	ReasonUnparseableLink  = "messaging-link-unparseable"
	ReasonBlocked          = "blocked"
)

// LinkConfig controls the external-page browser pool.
type LinkConfig struct {
	Headless           bool
	UserAgent          string
	Timeout            time.Duration
	Workers            int
	RequestsPerSecond  float64
	MaxAggregatorLinks int
}

// LinkScraper loads arbitrary third-party URLs and extracts contact
// signals. It runs its own browser, never the authenticated platform
// session, so a small worker pool is safe here.
type LinkScraper struct {
	cfg     LinkConfig
	limiter *rate.Limiter

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewLinkScraper(cfg LinkConfig) *LinkScraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.MaxAggregatorLinks <= 0 {
		cfg.MaxAggregatorLinks = 5
	}
	return &LinkScraper{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Scrape resolves one external URL into contact signals. It never returns
// an error: failures come back as an empty result with Reason set, so a
// single unreachable page cannot abort a batch.
func (s *LinkScraper) Scrape(ctx context.Context, rawURL string) *PageContacts {
	switch {
	case phone.IsMessagingURL(rawURL):
		// The link itself encodes the number; no navigation needed.
		if number, ok := phone.FromMessagingURL(rawURL); ok {
			return &PageContacts{
				URL:    rawURL,
				Phones: []PhoneMatch{{Number: number, Source: model.SourceDirectLink, Qualified: true}},
			}
		}
		return &PageContacts{URL: rawURL, Reason: ReasonUnparseableLink}

	case IsRedirectCodeURL(rawURL):
		return s.scrapeRedirectCode(ctx, rawURL)

	case IsAggregatorURL(rawURL):
		return s.scrapeAggregator(ctx, rawURL)

	default:
		return s.scrapePage(ctx, rawURL)
	}
}

// ScrapeAll fans a URL list out over the bounded worker pool.
func (s *LinkScraper) ScrapeAll(ctx context.Context, urls []string) map[string]*PageContacts {
	results := make(map[string]*PageContacts, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, u := range urls {
		g.Go(func() error {
			pc := s.Scrape(gctx, u)
			mu.Lock()
			results[u] = pc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return results
}

// scrapeRedirectCode resolves a short-code link by navigating it and
// reading the destination. Headless execution cannot complete this class
// of redirect, which is reported as an explicit limitation rather than
// silently dropped.
func (s *LinkScraper) scrapeRedirectCode(ctx context.Context, rawURL string) *PageContacts {
	if s.cfg.Headless {
		return &PageContacts{URL: rawURL, Reason: ReasonHeadlessRedirect}
	}
	finalURL, html, err := s.fetchRendered(ctx, rawURL)
	if err != nil {
		return &PageContacts{URL: rawURL, Reason: ReasonNavigationFailed + ": " + err.Error()}
	}
	if number, ok := phone.FromMessagingURL(finalURL); ok {
		return &PageContacts{
			URL:    rawURL,
			Phones: []PhoneMatch{{Number: number, Source: model.SourceRedirectCodeLink, Qualified: true}},
		}
	}
	result := ParsePageContacts(rawURL, html)
	for i := range result.Phones {
		result.Phones[i].Source = model.SourceRedirectCodeLink
	}
	return result
}

// scrapeAggregator scans every sub-link on a link-hub page, since the
// target link may be nested anywhere in the list.
func (s *LinkScraper) scrapeAggregator(ctx context.Context, rawURL string) *PageContacts {
	_, html, err := s.fetchRendered(ctx, rawURL)
	if err != nil {
		return &PageContacts{URL: rawURL, Reason: ReasonNavigationFailed + ": " + err.Error()}
	}
	if blocked, bt := DetectBlock(html); blocked {
		return &PageContacts{URL: rawURL, Reason: ReasonBlocked + ": " + string(bt)}
	}

	merged := ParsePageContacts(rawURL, html)
	merged.URL = rawURL

	subLinks := AggregatorSubLinks(rawURL, html, s.cfg.MaxAggregatorLinks)
	zap.L().Debug("aggregator sub-links collected",
		zap.String("url", rawURL),
		zap.Int("count", len(subLinks)))

	var toVisit []string
	for _, link := range subLinks {
		if number, ok := phone.FromMessagingURL(link); ok {
			mergePhone(merged, PhoneMatch{Number: number, Source: model.SourceDirectLink, Qualified: true})
			continue
		}
		toVisit = append(toVisit, link)
	}
	// A decoded messaging link already answers the question. Numbers the
	// hub page itself happened to mention do not; the real sub-links may
	// still hold the direct contact.
	if hasDirectPhone(merged) {
		return merged
	}

	for _, pc := range s.ScrapeAll(ctx, toVisit) {
		if pc == nil {
			continue
		}
		for _, p := range pc.Phones {
			mergePhone(merged, p)
		}
		merged.Emails = mergeEmails(merged.Emails, pc.Emails)
	}
	return merged
}

// scrapePage renders an arbitrary site and runs both extraction passes.
func (s *LinkScraper) scrapePage(ctx context.Context, rawURL string) *PageContacts {
	_, html, err := s.fetchRendered(ctx, rawURL)
	if err != nil {
		return &PageContacts{URL: rawURL, Reason: ReasonNavigationFailed + ": " + err.Error()}
	}
	if blocked, bt := DetectBlock(html); blocked {
		return &PageContacts{URL: rawURL, Reason: ReasonBlocked + ": " + string(bt)}
	}
	return ParsePageContacts(rawURL, html)
}

// fetchRendered navigates a fresh tab to rawURL and returns the resolved
// location plus the rendered HTML. Rate limiting happens here so every
// navigation path is paced.
func (s *LinkScraper) fetchRendered(ctx context.Context, rawURL string) (string, string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", "", eris.Wrap(err, "scrape: rate limit wait")
	}
	if err := s.ensureBrowser(); err != nil {
		return "", "", err
	}

	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()
	navCtx, cancel := context.WithTimeout(tabCtx, s.cfg.Timeout)
	defer cancel()

	var finalURL, html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", "", eris.Wrapf(err, "scrape: navigate %s", rawURL)
	}
	return finalURL, html, nil
}

func (s *LinkScraper) ensureBrowser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCtx != nil {
		return nil
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.WindowSize(1280, 900),
	)
	if s.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.cfg.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return eris.Wrap(err, "scrape: start browser")
	}
	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	return nil
}

// Close shuts the pool's browser down.
func (s *LinkScraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.browserCtx = nil
}

func hasDirectPhone(pc *PageContacts) bool {
	for _, p := range pc.Phones {
		if p.Source == model.SourceDirectLink {
			return true
		}
	}
	return false
}

func mergePhone(pc *PageContacts, match PhoneMatch) {
	for i, existing := range pc.Phones {
		if existing.Number == match.Number {
			if match.Source.Precedence() < existing.Source.Precedence() {
				pc.Phones[i].Source = match.Source
			}
			if match.Qualified {
				pc.Phones[i].Qualified = true
			}
			return
		}
	}
	pc.Phones = append(pc.Phones, match)
}

func mergeEmails(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, e := range dst {
		seen[e] = true
	}
	for _, e := range src {
		if !seen[e] {
			seen[e] = true
			dst = append(dst, e)
		}
	}
	return dst
}
