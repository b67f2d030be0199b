package scrape

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atendai/leadscout/internal/model"
)

// ProfileScraper loads a profile page in an authenticated tab and extracts
// a snapshot. It performs no retries; the batch driver owns retry policy.
type ProfileScraper struct {
	BaseURL string
	Timeout time.Duration
}

func NewProfileScraper(baseURL string, timeout time.Duration) *ProfileScraper {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ProfileScraper{BaseURL: baseURL, Timeout: timeout}
}

// expandBioJS clicks the biography "more" control when present, so the
// stored biography is never the truncated ellipsis form.
const expandBioJS = `(() => {
	const nodes = document.querySelectorAll('header button, header span[role="button"], header div[role="button"]');
	for (const n of nodes) {
		const t = (n.textContent || '').trim().toLowerCase();
		if (t === 'more' || t === 'mais' || t === 'ver mais') { n.click(); return true; }
	}
	return false;
})()`

// Scrape navigates to the profile for handle and returns its snapshot.
// Every field read is independently fault-tolerant: a failed read leaves
// the field empty instead of aborting the scrape.
func (s *ProfileScraper) Scrape(ctx context.Context, handle string) (*model.ProfileSnapshot, error) {
	profileURL := s.BaseURL + "/" + url.PathEscape(handle) + "/"
	navCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var html string
	var expanded bool
	err := chromedp.Run(navCtx,
		chromedp.Navigate(profileURL),
		chromedp.WaitReady(`main`, chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Evaluate(expandBioJS, &expanded),
		chromedp.Sleep(300*time.Millisecond),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) {
			return nil, eris.Wrapf(ErrScrapeTimeout, "profile %s", handle)
		}
		return nil, eris.Wrapf(err, "scrape: navigate profile %s", handle)
	}
	if isNotFoundPage(html) {
		return nil, eris.Wrapf(ErrProfileNotFound, "profile %s", handle)
	}

	snap := ParseProfileHTML(handle, html)
	zap.L().Debug("profile scraped",
		zap.String("handle", handle),
		zap.Bool("bio_expanded", expanded),
		zap.Int64("followers", snap.Followers))
	return snap, nil
}
