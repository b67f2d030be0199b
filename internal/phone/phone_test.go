package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddsCountryCode(t *testing.T) {
	got, ok := Normalize("(11) 98765-4321")
	require.True(t, ok)
	assert.Equal(t, "5511987654321", got)
}

func TestNormalizeLandline(t *testing.T) {
	got, ok := Normalize("11 3456-7890")
	require.True(t, ok)
	assert.Equal(t, "551134567890", got)
}

func TestNormalizeKeepsExistingCountryCode(t *testing.T) {
	got, ok := Normalize("+55 21 99876-1234")
	require.True(t, ok)
	assert.Equal(t, "5521998761234", got)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"(11) 98765-4321",
		"85 91234-8765",
		"+55 47 3333-1289",
	}
	for _, in := range inputs {
		first, ok := Normalize(in)
		require.True(t, ok, in)
		second, ok := Normalize(first)
		require.True(t, ok, first)
		assert.Equal(t, first, second)
	}
}

func TestNormalizeRejectsMobileWithoutNine(t *testing.T) {
	_, ok := Normalize("5511887654321")
	assert.False(t, ok)
}

func TestNormalizeRejectsInvalidDDD(t *testing.T) {
	for _, raw := range []string{"(10) 98765-4321", "(20) 98765-4321", "(90) 98765-4321"} {
		_, ok := Normalize(raw)
		assert.False(t, ok, raw)
	}
}

func TestNormalizeRejectsRepeatedDigits(t *testing.T) {
	for _, raw := range []string{
		"00000000000", "11111111111", "22222222222", "33333333333",
		"44444444444", "55555555555", "66666666666", "77777777777",
		"88888888888", "99999999999",
	} {
		_, ok := Normalize(raw)
		assert.False(t, ok, raw)
	}
}

func TestNormalizeRejectsKnownFakes(t *testing.T) {
	for _, raw := range []string{"12345678901", "98765432109", "99996666666"} {
		_, ok := Normalize(raw)
		assert.False(t, ok, raw)
	}
}

func TestNormalizeKeepsLowDistinctDigits(t *testing.T) {
	// Deliberately encoded numbers can be repetitive; the low-distinct
	// heuristic belongs to the free-text scan, not to normalization.
	got, ok := Normalize("5511999990000")
	require.True(t, ok)
	assert.Equal(t, "5511999990000", got)
}

func TestNormalizeRejectsWrongLength(t *testing.T) {
	for _, raw := range []string{"", "1198765", "55119876543211234"} {
		_, ok := Normalize(raw)
		assert.False(t, ok, raw)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("5511987654321"))
	assert.False(t, Valid("999"))
}

func TestExtractFromTextQualified(t *testing.T) {
	got := ExtractFromText("Contato: zap (11) 98765-4321")
	require.Len(t, got, 1)
	assert.Equal(t, "5511987654321", got[0].Number)
	assert.True(t, got[0].Qualified)
}

func TestExtractFromTextUnqualified(t *testing.T) {
	got := ExtractFromText("promo valida ate sexta (11) 98765-4321")
	require.Len(t, got, 1)
	assert.Equal(t, "5511987654321", got[0].Number)
	assert.False(t, got[0].Qualified)
}

func TestExtractFromTextKeywordIsWholeWord(t *testing.T) {
	// "zapeando" must not qualify the line via the "zap" keyword.
	got := ExtractFromText("zapeando ofertas (11) 98765-4321")
	require.Len(t, got, 1)
	assert.False(t, got[0].Qualified)
}

func TestExtractFromTextDedupesKeepingQualified(t *testing.T) {
	text := "(11) 98765-4321\nwhatsapp 11 98765 4321"
	got := ExtractFromText(text)
	require.Len(t, got, 1)
	assert.True(t, got[0].Qualified)
}

func TestExtractFromTextDropsInvalid(t *testing.T) {
	got := ExtractFromText("ligue (11) 99999-9999 ou (10) 98765-4321")
	assert.Empty(t, got)
}

func TestExtractFromTextDropsLowDistinctDigits(t *testing.T) {
	got := ExtractFromText("me chama (11) 99999-0000")
	assert.Empty(t, got)
}

func TestFromMessagingURL(t *testing.T) {
	cases := map[string]string{
		"https://wa.me/5511987654321":                          "5511987654321",
		"https://wa.me/11987654321":                            "5511987654321",
		"https://api.whatsapp.com/send?phone=5511999990000":    "5511999990000",
		"https://api.whatsapp.com/send/?phone=%2B5511999990000": "5511999990000",
		"whatsapp://send?phone=5521998761234":                  "5521998761234",
		"https://service.example/send?phone=5511999990000":     "5511999990000",
	}
	for raw, want := range cases {
		got, ok := FromMessagingURL(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestFromMessagingURLRejectsNonLink(t *testing.T) {
	_, ok := FromMessagingURL("https://example.com/about")
	assert.False(t, ok)
}

func TestIsMessagingURL(t *testing.T) {
	assert.True(t, IsMessagingURL("https://wa.me/5511987654321"))
	assert.True(t, IsMessagingURL("whatsapp://send?phone=5511987654321"))
	assert.False(t, IsMessagingURL("https://linktr.ee/someone"))
}
