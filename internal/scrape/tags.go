package scrape

import (
	"context"
	"errors"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atendai/leadscout/internal/model"
)

// Suggestion is one related tag as displayed by the search surface.
type Suggestion struct {
	Tag        string `json:"tag"`
	VolumeText string `json:"volumeText"`
}

// TagScout explores a topic tag's suggested related tags through the
// platform's own search affordance.
type TagScout struct {
	BaseURL        string
	Timeout        time.Duration
	MaxSuggestions int
}

func NewTagScout(baseURL string, timeout time.Duration) *TagScout {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &TagScout{BaseURL: baseURL, Timeout: timeout, MaxSuggestions: 5}
}

// collectSuggestionsJS reads the tag suggestion rows the search surface
// renders: each row carries the tag anchor and its content-volume string.
const collectSuggestionsJS = `(() => {
	const rows = [];
	const seen = new Set();
	for (const a of document.querySelectorAll('a[href*="/explore/tags/"]')) {
		const m = a.getAttribute('href').match(/\/explore\/tags\/([^/]+)/);
		if (!m) continue;
		const tag = decodeURIComponent(m[1]);
		if (seen.has(tag)) continue;
		seen.add(tag);
		const text = (a.closest('li') || a.parentElement || a).textContent || '';
		const vol = text.match(/([\d.,   ]+\s*(?:mil|mi|k|m)?)\s*(?:publicações|publicacoes|posts)/i);
		rows.push({tag: tag, volumeText: vol ? vol[1].trim() : ''});
	}
	return rows;
})()`

// Discover opens the search surface for tag and returns its scored
// related-tag variations, capped at MaxSuggestions.
func (t *TagScout) Discover(ctx context.Context, tag string) ([]model.TagVariation, error) {
	searchURL := t.BaseURL + "/explore/search/keyword/?q=" + url.QueryEscape("#"+tag)
	navCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	var suggestions []Suggestion
	err := chromedp.Run(navCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady(`main`, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(collectSuggestionsJS, &suggestions),
	)
	if err != nil {
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) {
			return nil, eris.Wrapf(ErrScrapeTimeout, "tag search %s", tag)
		}
		return nil, eris.Wrapf(err, "scrape: tag search %s", tag)
	}

	variations := BuildVariations(tag, suggestions, t.MaxSuggestions, time.Now().UTC())
	zap.L().Debug("tag variations discovered",
		zap.String("tag", tag),
		zap.Int("count", len(variations)))
	return variations, nil
}

// BuildVariations normalizes, scores, and deduplicates raw suggestions.
// Duplicate terms keep the higher-priority row.
func BuildVariations(parent string, suggestions []Suggestion, max int, now time.Time) []model.TagVariation {
	parent = NormalizeTag(parent)
	byTag := make(map[string]int)
	var out []model.TagVariation

	for _, s := range suggestions {
		tag := NormalizeTag(s.Tag)
		if tag == "" || tag == parent {
			continue
		}
		volume, _ := ParseCount(s.VolumeText)
		v := model.TagVariation{
			Parent:       parent,
			Tag:          tag,
			Volume:       volume,
			Priority:     PriorityScore(volume),
			Category:     CategoryFor(volume),
			DiscoveredAt: now,
		}
		if i, dup := byTag[tag]; dup {
			if v.Priority > out[i].Priority {
				out[i] = v
			}
			continue
		}
		byTag[tag] = len(out)
		out = append(out, v)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// NormalizeTag lowercases a tag and strips the leading hash.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

var hashtagPattern = regexp.MustCompile(`#[\p{L}\d_]+`)

// HashtagsFromText harvests hashtags from free text, lowercased and
// deduplicated, hash stripped.
func HashtagsFromText(text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range hashtagPattern.FindAllString(text, -1) {
		tag := NormalizeTag(m)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// PriorityScore maps content volume to a 0-100 score with diminishing
// returns: each order of magnitude adds a fixed 20 points.
func PriorityScore(volume int64) int {
	if volume <= 0 {
		return 0
	}
	score := int(math.Round(20 * math.Log10(float64(volume)+1)))
	if score > 100 {
		return 100
	}
	return score
}

// CategoryFor buckets a variation by content volume.
func CategoryFor(volume int64) model.TagCategory {
	switch {
	case volume < 10_000:
		return model.TagCategoryNiche
	case volume < 500_000:
		return model.TagCategoryMid
	default:
		return model.TagCategoryBroad
	}
}
