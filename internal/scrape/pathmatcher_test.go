package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathMatcher_IsExcluded(t *testing.T) {
	t.Parallel()
	m := NewPathMatcher([]string{"/privacy*", "/legal/*", "/*.pdf", "/cookie*"})

	tests := []struct {
		name     string
		url      string
		excluded bool
	}{
		{"privacy page", "https://acme.com/privacy", true},
		{"privacy policy", "https://acme.com/privacy-policy", true},
		{"legal deep path", "https://acme.com/legal/2024/terms", true},
		{"cookie policy", "https://acme.com/cookie-policy", true},
		{"pdf file", "https://acme.com/menu.pdf", true},
		{"contact page", "https://acme.com/contato", false},
		{"about page", "https://acme.com/sobre", false},
		{"homepage", "https://acme.com/", false},
		{"nested pdf in path", "https://acme.com/docs/menu.pdf", false}, // /*.pdf only matches root-level
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.excluded, m.IsExcluded(tt.url))
		})
	}
}

func TestPathMatcher_DefaultPatterns(t *testing.T) {
	m := NewPathMatcher(nil)

	assert.True(t, m.IsExcluded("https://acme.com/privacy"))
	assert.True(t, m.IsExcluded("https://acme.com/terms-of-service"))
	assert.True(t, m.IsExcluded("https://acme.com/legal/notice"))
	assert.False(t, m.IsExcluded("https://acme.com/contato"))
	assert.False(t, m.IsExcluded("https://acme.com/whatsapp"))
}

func TestPathMatcher_CaseInsensitive(t *testing.T) {
	m := NewPathMatcher([]string{"/Legal/*"})

	assert.True(t, m.IsExcluded("https://acme.com/legal/notice"))
	assert.True(t, m.IsExcluded("https://acme.com/LEGAL/NOTICE"))
}

func TestPathMatcher_InvalidURL(t *testing.T) {
	m := NewPathMatcher([]string{"/legal/*"})

	assert.True(t, m.IsExcluded("://invalid"))
}

func TestMatchSegmented(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		pattern string
		urlPath string
		match   bool
	}{
		{"exact glob", "/legal/*", "/legal/notice", true},
		{"deep path", "/legal/*", "/legal/2024/01/notice", true},
		{"root match", "/legal/*", "/legal", true},
		{"no match", "/legal/*", "/sobre", false},
		{"pdf glob", "/*.pdf", "/menu.pdf", true},
		{"nested no match", "/*.pdf", "/docs/menu.pdf", false},
		{"root slash", "/legal/*", "/legal/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.match, matchSegmented(tt.pattern, tt.urlPath))
		})
	}
}

func TestPathMatcher_Patterns(t *testing.T) {
	patterns := []string{"/privacy*", "/legal/*"}
	m := NewPathMatcher(patterns)
	assert.Equal(t, patterns, m.Patterns())
}
