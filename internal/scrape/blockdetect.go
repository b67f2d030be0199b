package scrape

import "strings"

// BlockType classifies the anti-bot interstitial found on a rendered page.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockEmptyShell BlockType = "empty_shell"
)

// DetectBlock inspects rendered HTML for signs of anti-bot protection.
// External pages load through a real browser, so a challenge arrives as a
// normal document; the markers below are what those pages contain.
func DetectBlock(html string) (bool, BlockType) {
	lower := strings.ToLower(html)

	// Cloudflare challenge page markers.
	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge") {
		return true, BlockCloudflare
	}

	// Captcha markers.
	if strings.Contains(lower, "captcha") ||
		strings.Contains(lower, "recaptcha") ||
		strings.Contains(lower, "hcaptcha") {
		return true, BlockCaptcha
	}

	// A near-empty document after rendering means the page refused to
	// hydrate for this browser profile.
	if len(html) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockEmptyShell
		}
		if strings.Contains(lower, "meta http-equiv=\"refresh\"") {
			return true, BlockEmptyShell
		}
	}

	return false, BlockNone
}
