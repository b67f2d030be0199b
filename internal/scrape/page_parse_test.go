package scrape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atendai/leadscout/internal/model"
)

func TestParsePageContactsStructuredScan(t *testing.T) {
	html := `<html><body>
<a href="mailto:vendas@loja.com.br?subject=oi">fale conosco</a>
<a href="https://wa.me/5511987654321">whatsapp</a>
<a href="tel:+55 21 99876-1234">ligue</a>
</body></html>`
	got := ParsePageContacts("https://loja.com.br", html)

	require.Len(t, got.Phones, 2)
	assert.Equal(t, "5511987654321", got.Phones[0].Number)
	assert.True(t, got.Phones[0].Qualified)
	assert.Equal(t, model.SourceLinkPageContext, got.Phones[0].Source)
	assert.Equal(t, "5521998761234", got.Phones[1].Number)

	require.Len(t, got.Emails, 1)
	assert.Equal(t, "vendas@loja.com.br", got.Emails[0])
}

func TestParsePageContactsFreeTextScan(t *testing.T) {
	html := `<html><body>
<p>Horário: seg a sex</p>
<p>Telefone: (47) 3333-1289</p>
<p>Pedidos acima de 11 99999 8888 reais</p>
</body></html>`
	got := ParsePageContacts("https://site.test", html)

	require.NotEmpty(t, got.Phones)
	assert.Equal(t, "554733331289", got.Phones[0].Number)
	assert.True(t, got.Phones[0].Qualified)
}

func TestParsePageContactsPrefersKeywordWindow(t *testing.T) {
	html := `<html><body>
<p>pedido numero (11) 4002-8922</p>
<p>whatsapp: (21) 98877-6655</p>
</body></html>`
	got := ParsePageContacts("https://site.test", html)

	byNumber := map[string]bool{}
	for _, p := range got.Phones {
		byNumber[p.Number] = p.Qualified
	}
	assert.False(t, byNumber["551140028922"])
	assert.True(t, byNumber["5521988776655"])
}

func TestParsePageContactsEmptyPage(t *testing.T) {
	got := ParsePageContacts("https://site.test", "<html><body>nada aqui</body></html>")
	assert.Empty(t, got.Phones)
	assert.Empty(t, got.Emails)
	assert.Empty(t, got.Reason)
}

func TestAggregatorSubLinks(t *testing.T) {
	html := `<html><body>
<a href="https://linktr.ee/settings">settings</a>
<a href="javascript:void(0)">menu</a>
<a href="https://instagram.com/perfil">insta</a>
<a href="https://wa.me/5511987654321">zap</a>
<a href="https://minhaloja.com.br">loja</a>
<a href="https://minhaloja.com.br">loja de novo</a>
<a href="https://outra.com/contato">contato</a>
</body></html>`
	got := AggregatorSubLinks("https://linktr.ee/alguem", html, 5)

	require.Len(t, got, 3)
	// Messaging links come first.
	assert.Equal(t, "https://wa.me/5511987654321", got[0])
	assert.Contains(t, got, "https://minhaloja.com.br")
	assert.Contains(t, got, "https://outra.com/contato")
}

func TestAggregatorSubLinksCap(t *testing.T) {
	html := `<html><body>
<a href="https://a.com">1</a><a href="https://b.com">2</a>
<a href="https://c.com">3</a><a href="https://d.com">4</a>
</body></html>`
	got := AggregatorSubLinks("https://beacons.ai/x", html, 2)
	assert.Len(t, got, 2)
}

func TestScrapeDirectMessagingLinkNeedsNoBrowser(t *testing.T) {
	s := NewLinkScraper(LinkConfig{Headless: true})
	got := s.Scrape(context.Background(), "https://api.whatsapp.com/send?phone=5511999990000")

	require.Len(t, got.Phones, 1)
	assert.Equal(t, "5511999990000", got.Phones[0].Number)
	assert.Equal(t, model.SourceDirectLink, got.Phones[0].Source)
	assert.Empty(t, got.Reason)
}

func TestScrapeUnparseableMessagingLink(t *testing.T) {
	s := NewLinkScraper(LinkConfig{Headless: true})
	got := s.Scrape(context.Background(), "https://wa.me/99999999999")
	assert.Empty(t, got.Phones)
	assert.Equal(t, ReasonUnparseableLink, got.Reason)
}

func TestScrapeRedirectCodeHeadlessLimitation(t *testing.T) {
	s := NewLinkScraper(LinkConfig{Headless: true})
	got := s.Scrape(context.Background(), "https://wa.link/abc123")
	assert.Empty(t, got.Phones)
	assert.Equal(t, ReasonHeadlessRedirect, got.Reason)
}

func TestIsAggregatorURL(t *testing.T) {
	assert.True(t, IsAggregatorURL("https://linktr.ee/alguem"))
	assert.True(t, IsAggregatorURL("https://beacons.ai/alguem"))
	assert.False(t, IsAggregatorURL("https://minhaloja.com.br"))
}
