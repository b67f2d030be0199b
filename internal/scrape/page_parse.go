package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/atendai/leadscout/internal/model"
	"github.com/atendai/leadscout/internal/phone"
)

// PhoneMatch is one phone signal found on an external page.
type PhoneMatch struct {
	Number    string
	Source    model.ContactSource
	Qualified bool // structured link or keyword-window match
}

// PageContacts is the outcome of scraping one external URL. Failures set
// Reason and leave the lists empty; no error crosses the batch boundary.
type PageContacts struct {
	URL    string
	Phones []PhoneMatch
	Emails []string
	Reason string
}

// aggregatorHosts are bio-link hub services whose pages list the real
// destination links.
var aggregatorHosts = map[string]bool{
	"linktr.ee":       true,
	"www.linktr.ee":   true,
	"beacons.ai":      true,
	"www.beacons.ai":  true,
	"linkin.bio":      true,
	"www.linkin.bio":  true,
	"bio.link":        true,
	"www.bio.link":    true,
}

// redirectCodeHosts serve short codes that only resolve to a number after
// navigation.
var redirectCodeHosts = map[string]bool{
	"wa.link":     true,
	"www.wa.link": true,
}

// socialHosts never hold a business's own contact page.
var socialHostSuffixes = []string{
	"instagram.com", "facebook.com", "twitter.com", "x.com", "tiktok.com",
	"youtube.com", "youtu.be", "pinterest.com", "linkedin.com",
	"spotify.com", "apple.com", "play.google.com", "t.me",
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// IsAggregatorURL reports whether raw points at a link-aggregator hub.
func IsAggregatorURL(raw string) bool {
	return aggregatorHosts[hostOf(raw)]
}

// IsRedirectCodeURL reports whether raw is a short redirect-code link
// that requires navigation to resolve.
func IsRedirectCodeURL(raw string) bool {
	return redirectCodeHosts[hostOf(raw)]
}

func isSocialHost(host string) bool {
	for _, suffix := range socialHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// ParsePageContacts runs the two extraction passes over a rendered page:
// a structured scan of contact links, then a free-text scan of the body.
// Structured and keyword-window matches rank above bare pattern matches.
func ParsePageContacts(pageURL, html string) *PageContacts {
	result := &PageContacts{URL: pageURL}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		result.Reason = "unparseable-html"
		return result
	}

	seenPhones := make(map[string]int)
	seenEmails := make(map[string]bool)

	addPhone := func(number string, qualified bool) {
		if i, dup := seenPhones[number]; dup {
			if qualified {
				result.Phones[i].Qualified = true
			}
			return
		}
		seenPhones[number] = len(result.Phones)
		result.Phones = append(result.Phones, PhoneMatch{
			Number:    number,
			Source:    model.SourceLinkPageContext,
			Qualified: qualified,
		})
	}

	// Pass 1: structured contact links.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		switch {
		case strings.HasPrefix(strings.ToLower(href), "mailto:"):
			addr := strings.TrimPrefix(href, "mailto:")
			if idx := strings.IndexByte(addr, '?'); idx >= 0 {
				addr = addr[:idx]
			}
			addr = strings.ToLower(strings.TrimSpace(addr))
			if addr != "" && emailPattern.MatchString(addr) && !seenEmails[addr] {
				seenEmails[addr] = true
				result.Emails = append(result.Emails, addr)
			}
		case strings.HasPrefix(strings.ToLower(href), "tel:"):
			if number, ok := phone.Normalize(strings.TrimPrefix(href, "tel:")); ok {
				addPhone(number, true)
			}
		default:
			if number, ok := phone.FromMessagingURL(href); ok {
				addPhone(number, true)
			}
		}
	})

	// Pass 2: free-text scan of the rendered body.
	body := doc.Find("body").Text()
	for _, candidate := range phone.ExtractFromText(body) {
		addPhone(candidate.Number, candidate.Qualified)
	}
	for _, addr := range emailPattern.FindAllString(body, -1) {
		addr = strings.ToLower(addr)
		if !seenEmails[addr] {
			seenEmails[addr] = true
			result.Emails = append(result.Emails, addr)
		}
	}
	return result
}

// subLinkExcludes drops hub boilerplate (privacy, terms, cookie pages)
// from the visit list.
var subLinkExcludes = NewPathMatcher(nil)

// AggregatorSubLinks lists the outbound links on a link-hub page worth
// visiting: messaging links first, then non-social destinations, skipping
// the hub's own navigation. The target link may be nested anywhere in the
// list, so every anchor is considered.
func AggregatorSubLinks(pageURL, html string, max int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	ownHost := hostOf(pageURL)

	var messaging, other []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		lower := strings.ToLower(href)
		if href == "" || strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "#") || strings.HasPrefix(lower, "mailto:") {
			return
		}
		if phone.IsMessagingURL(href) {
			if !seen[href] {
				seen[href] = true
				messaging = append(messaging, href)
			}
			return
		}
		host := hostOf(href)
		if host == "" || host == ownHost || aggregatorHosts[host] || isSocialHost(host) {
			return
		}
		if subLinkExcludes.IsExcluded(href) {
			return
		}
		if !seen[href] {
			seen[href] = true
			other = append(other, href)
		}
	})

	links := append(messaging, other...)
	if max > 0 && len(links) > max {
		links = links[:max]
	}
	return links
}
