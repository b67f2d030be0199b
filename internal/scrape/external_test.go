package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendai/leadscout/internal/model"
)

func TestHasDirectPhoneIgnoresPageContextNumbers(t *testing.T) {
	// An incidental number on the hub page must not suppress visiting
	// the real sub-links.
	pc := &PageContacts{Phones: []PhoneMatch{
		{Number: "5547988112233", Source: model.SourceLinkPageContext},
	}}
	assert.False(t, hasDirectPhone(pc))

	mergePhone(pc, PhoneMatch{Number: "5511987654321", Source: model.SourceDirectLink, Qualified: true})
	assert.True(t, hasDirectPhone(pc))
}

func TestMergePhoneUpgradesSourceAndQualification(t *testing.T) {
	pc := &PageContacts{Phones: []PhoneMatch{
		{Number: "5511987654321", Source: model.SourceLinkPageContext},
	}}

	mergePhone(pc, PhoneMatch{Number: "5511987654321", Source: model.SourceDirectLink, Qualified: true})
	assert.Len(t, pc.Phones, 1)
	assert.Equal(t, model.SourceDirectLink, pc.Phones[0].Source)
	assert.True(t, pc.Phones[0].Qualified)

	// A weaker re-sighting never downgrades.
	mergePhone(pc, PhoneMatch{Number: "5511987654321", Source: model.SourceLinkPageContext})
	assert.Equal(t, model.SourceDirectLink, pc.Phones[0].Source)
}
