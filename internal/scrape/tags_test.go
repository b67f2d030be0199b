package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atendai/leadscout/internal/model"
)

func TestBuildVariations(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	suggestions := []Suggestion{
		{Tag: "#maquiagemprofissional", VolumeText: "12 mil"},
		{Tag: "maquiagembrasil", VolumeText: "1,2 mi"},
		{Tag: "maquiagem", VolumeText: "45 mi"}, // equals parent, dropped
		{Tag: "makeupartist", VolumeText: "823"},
	}
	got := BuildVariations("Maquiagem", suggestions, 5, now)
	require.Len(t, got, 3)

	assert.Equal(t, "maquiagemprofissional", got[0].Tag)
	assert.Equal(t, "maquiagem", got[0].Parent)
	assert.Equal(t, int64(12_000), got[0].Volume)
	assert.Equal(t, model.TagCategoryMid, got[0].Category)
	assert.Equal(t, now, got[0].DiscoveredAt)

	assert.Equal(t, "maquiagembrasil", got[1].Tag)
	assert.Equal(t, model.TagCategoryBroad, got[1].Category)

	assert.Equal(t, "makeupartist", got[2].Tag)
	assert.Equal(t, model.TagCategoryNiche, got[2].Category)
}

func TestBuildVariationsDedupesKeepingHigherPriority(t *testing.T) {
	suggestions := []Suggestion{
		{Tag: "estetica", VolumeText: "500"},
		{Tag: "#estetica", VolumeText: "80 mil"},
	}
	got := BuildVariations("beleza", suggestions, 5, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, int64(80_000), got[0].Volume)
}

func TestBuildVariationsRespectsCap(t *testing.T) {
	var suggestions []Suggestion
	for _, tag := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		suggestions = append(suggestions, Suggestion{Tag: tag, VolumeText: "100"})
	}
	got := BuildVariations("a", suggestions, 5, time.Now())
	assert.Len(t, got, 5)
}

func TestHashtagsFromText(t *testing.T) {
	bio := "Nutricionista 🌱 #nutrição #SaudeIntegral dicas diárias #nutrição\nAgende: link abaixo"
	assert.Equal(t, []string{"nutrição", "saudeintegral"}, HashtagsFromText(bio))
}

func TestHashtagsFromTextNoTags(t *testing.T) {
	assert.Nil(t, HashtagsFromText("email e telefone no site"))
	assert.Nil(t, HashtagsFromText(""))
}

func TestPriorityScoreDiminishingReturns(t *testing.T) {
	assert.Equal(t, 0, PriorityScore(0))
	small := PriorityScore(1_000)
	mid := PriorityScore(50_000)
	big := PriorityScore(100_000)
	assert.Less(t, small, mid)
	assert.Less(t, mid, big)
	// Everything past 100k volume saturates at the cap.
	assert.Equal(t, 100, PriorityScore(100_000))
	assert.Equal(t, 100, PriorityScore(1_000_000_000))
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, model.TagCategoryNiche, CategoryFor(9_999))
	assert.Equal(t, model.TagCategoryMid, CategoryFor(10_000))
	assert.Equal(t, model.TagCategoryMid, CategoryFor(499_999))
	assert.Equal(t, model.TagCategoryBroad, CategoryFor(500_000))
}
