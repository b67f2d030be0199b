package scrape

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/atendai/leadscout/internal/model"
)

// statPattern matches "<count> <keyword>" fragments inside the profile
// header. Classification happens by keyword, never by element position,
// since the header DOM shape varies by viewport and locale.
var statPattern = regexp.MustCompile(`(?i)(\d[\d.,\x{202f}\x{00a0} ]*(?:mil|mi|kk|k|m)?)[\x{202f}\x{00a0} ]*(publica|posts?\b|seguidores|followers|seguindo|following)`)

var (
	jsonUsernamePattern   = regexp.MustCompile(`"username":"((?:[^"\\]|\\.)*)"`)
	jsonFullNamePattern   = regexp.MustCompile(`"full_name":"((?:[^"\\]|\\.)*)"`)
	jsonBiographyPattern  = regexp.MustCompile(`"biography":"((?:[^"\\]|\\.)*)"`)
	jsonExternalPattern   = regexp.MustCompile(`"external_url":"((?:[^"\\]|\\.)*)"`)
	jsonCategoryPattern   = regexp.MustCompile(`"category_name":"((?:[^"\\]|\\.)*)"`)
	jsonFollowersPattern  = regexp.MustCompile(`"edge_followed_by":\{"count":(\d+)`)
	jsonFollowingPattern  = regexp.MustCompile(`"edge_follow":\{"count":(\d+)`)
	jsonPostsPattern      = regexp.MustCompile(`"edge_owner_to_timeline_media":\{"count":(\d+)`)
	jsonBusinessPattern   = regexp.MustCompile(`"is_business_account":(true|false)`)
	emailPattern          = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

var notFoundMarkers = []string{
	"Sorry, this page isn't available",
	"Esta página não está disponível",
	"HttpErrorPage",
}

// promoHosts are destinations the platform injects on its own behalf.
// A link resolving to one of these is not a user-entered external link.
var promoHosts = map[string]bool{
	"threads.net":         true,
	"www.threads.net":     true,
	"threads.com":         true,
	"www.threads.com":     true,
	"about.instagram.com": true,
	"www.instagram.com":   true,
	"instagram.com":       true,
	"facebook.com":        true,
	"www.facebook.com":    true,
}

func isNotFoundPage(html string) bool {
	for _, marker := range notFoundMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

// ParseProfileHTML extracts a snapshot from a rendered profile page.
// DOM reads run first; the JSON blob the platform embeds in the page
// fills whatever the DOM did not yield.
func ParseProfileHTML(handle, html string) *model.ProfileSnapshot {
	snap := &model.ProfileSnapshot{Handle: handle}

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if docErr == nil {
		posts, followers, following := classifyHeaderStats(doc)
		snap.Posts, snap.Followers, snap.Following = posts, followers, following
		snap.ExternalURL = headerExternalLink(doc)
	}

	if snap.DisplayName = jsonString(jsonFullNamePattern, html); snap.DisplayName == "" {
		snap.DisplayName = nameFromTitle(doc, handle)
	}
	snap.Biography = jsonString(jsonBiographyPattern, html)

	if snap.ExternalURL == "" {
		snap.ExternalURL = UnwrapRedirect(jsonString(jsonExternalPattern, html))
	}
	if snap.Followers == 0 {
		snap.Followers = jsonCount(jsonFollowersPattern, html)
	}
	if snap.Following == 0 {
		snap.Following = jsonCount(jsonFollowingPattern, html)
	}
	if snap.Posts == 0 {
		snap.Posts = jsonCount(jsonPostsPattern, html)
	}
	if m := jsonBusinessPattern.FindStringSubmatch(html); m != nil {
		snap.IsBusiness = m[1] == "true"
	}
	snap.Category = jsonString(jsonCategoryPattern, html)

	if m := emailPattern.FindString(snap.Biography); m != "" {
		snap.Email = m
	}
	return snap
}

// classifyHeaderStats reads the three header counters by matching each
// count against its neighbouring keyword.
func classifyHeaderStats(doc *goquery.Document) (posts, followers, following int64) {
	header := doc.Find("header")
	if header.Length() == 0 {
		return 0, 0, 0
	}

	// Exact follower counts live in a title attribute when abbreviated.
	exactByTitle := make(map[string]int64)
	header.Find("span[title]").Each(func(_ int, sel *goquery.Selection) {
		title, _ := sel.Attr("title")
		if v, ok := ParseCount(title); ok {
			exactByTitle[strings.ToLower(sel.Parent().Text())] = v
		}
	})

	for _, m := range statPattern.FindAllStringSubmatch(header.Text(), -1) {
		value, ok := ParseCount(strings.TrimSpace(m[1]))
		if !ok {
			continue
		}
		switch keywordClass(m[2]) {
		case "posts":
			if posts == 0 {
				posts = value
			}
		case "followers":
			if followers == 0 {
				followers = value
				for ctx, exact := range exactByTitle {
					if strings.Contains(ctx, "seguidores") || strings.Contains(ctx, "followers") {
						followers = exact
					}
				}
			}
		case "following":
			if following == 0 {
				following = value
			}
		}
	}
	return posts, followers, following
}

func keywordClass(keyword string) string {
	k := strings.ToLower(keyword)
	switch {
	case strings.HasPrefix(k, "publica") || strings.HasPrefix(k, "post"):
		return "posts"
	case k == "seguidores" || k == "followers":
		return "followers"
	case k == "seguindo" || k == "following":
		return "following"
	}
	return ""
}

// headerExternalLink finds a user-entered outbound link in the header,
// unwrapping the platform's redirect shim when present.
func headerExternalLink(doc *goquery.Document) string {
	var found string
	doc.Find("header a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		resolved := UnwrapRedirect(href)
		if resolved == "" {
			return true
		}
		u, err := url.Parse(resolved)
		if err != nil || u.Host == "" || promoHosts[strings.ToLower(u.Host)] {
			return true
		}
		found = resolved
		return false
	})
	return found
}

func nameFromTitle(doc *goquery.Document, handle string) string {
	if doc == nil {
		return ""
	}
	title, ok := doc.Find(`meta[property="og:title"]`).Attr("content")
	if !ok {
		return ""
	}
	if idx := strings.Index(title, "(@"+handle); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return ""
}

// UnwrapRedirect decodes the platform's outbound-link tracker, returning
// the genuine destination. Links resolving to the platform's own product
// promotions yield an empty string.
func UnwrapRedirect(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if strings.HasPrefix(host, "l.") || strings.HasPrefix(host, "lm.") {
		wrapped := u.Query().Get("u")
		if wrapped == "" {
			return ""
		}
		inner, err := url.QueryUnescape(wrapped)
		if err != nil {
			return ""
		}
		return UnwrapRedirect(inner)
	}
	if promoHosts[host] || host == "" {
		return ""
	}
	return href
}

func jsonString(pattern *regexp.Regexp, html string) string {
	m := pattern.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	var out string
	if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &out); err != nil {
		return ""
	}
	return out
}

func jsonCount(pattern *regexp.Regexp, html string) int64 {
	m := pattern.FindStringSubmatch(html)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
