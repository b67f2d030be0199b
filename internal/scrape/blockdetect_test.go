package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock_CloudflareChallenge(t *testing.T) {
	html := "<html><body><h1>Checking your browser before accessing acme.com</h1></body></html>"
	blocked, bt := DetectBlock(html)
	assert.True(t, blocked)
	assert.Equal(t, BlockCloudflare, bt)
}

func TestDetectBlock_CaptchaInBody(t *testing.T) {
	html := "<html><body>Please complete the reCAPTCHA to continue</body></html>"
	blocked, bt := DetectBlock(html)
	assert.True(t, blocked)
	assert.Equal(t, BlockCaptcha, bt)
}

func TestDetectBlock_EmptyShell(t *testing.T) {
	html := "<html><noscript>Enable JavaScript to continue</noscript></html>"
	blocked, bt := DetectBlock(html)
	assert.True(t, blocked)
	assert.Equal(t, BlockEmptyShell, bt)
}

func TestDetectBlock_MetaRefreshShell(t *testing.T) {
	html := `<html><head><meta http-equiv="refresh" content="0;url=/next"></head></html>`
	blocked, bt := DetectBlock(html)
	assert.True(t, blocked)
	assert.Equal(t, BlockEmptyShell, bt)
}

func TestDetectBlock_CleanPage(t *testing.T) {
	html := "<html><body>Welcome to Acme Corp. We build great products.</body></html>"
	blocked, bt := DetectBlock(html)
	assert.False(t, blocked)
	assert.Equal(t, BlockNone, bt)
}
