package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atendai/leadscout/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func leadRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "handle", "display_name", "biography", "external_url",
		"followers", "following", "posts", "city", "state", "is_business",
		"category", "email", "primary_phone", "profile_status", "tags_status",
		"bio_contact_status", "link_contact_status", "created_at", "updated_at",
	})
}

func TestPostgresGetLeadByHandleMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM leads WHERE handle`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	lead, err := s.GetLeadByHandle(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, lead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertLeadReturnsExisting(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM leads WHERE handle`).
		WithArgs("studio_sp").
		WillReturnRows(leadRows().AddRow(
			"id-1", "studio_sp", "", "", "",
			int64(0), int64(0), int64(0), "", "", false,
			"", "", "", "pending", "pending", "pending", "pending", now, now,
		))

	lead, err := s.UpsertLead(context.Background(), "studio_sp")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "id-1", lead.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertLeadInserts(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM leads WHERE handle`).
		WithArgs("fresh").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "fresh", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT .+ FROM leads WHERE handle`).
		WithArgs("fresh").
		WillReturnRows(leadRows().AddRow(
			"id-2", "fresh", "", "", "",
			int64(0), int64(0), int64(0), "", "", false,
			"", "", "", "pending", "pending", "pending", "pending", now, now,
		))

	lead, err := s.UpsertLead(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", lead.Handle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListLeadsForStageAppliesSourceFilter(t *testing.T) {
	s, mock := newMockStore(t)
	after := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM leads WHERE bio_contact_status = \$1 AND created_at > \$2 AND biography <> ''`).
		WithArgs("pending", after, 25).
		WillReturnRows(leadRows().AddRow(
			"id-3", "with_bio", "", "Contato: (11) 98765-4321", "",
			int64(0), int64(0), int64(0), "", "", false,
			"", "", "", "found", "pending", "pending", "pending", now, now,
		))

	leads, err := s.ListLeadsForStage(context.Background(), model.StageBioContact, after, 25)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "with_bio", leads[0].Handle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStageStatus(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE leads SET link_contact_status = \$1`).
		WithArgs("found", pgxmock.AnyArg(), "id-4").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.SetStageStatus(context.Background(), "id-4", model.StageLinkContact, model.StageStatusFound)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStageStatusMissingLead(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE leads SET profile_status = \$1`).
		WithArgs("none", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.SetStageStatus(context.Background(), "missing", model.StageProfile, model.StageStatusNone)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAddContactsInsertAndUpgrade(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	// New number inserts.
	mock.ExpectQuery(`SELECT source FROM contacts`).
		WithArgs("id-5", "5511987654321").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(pgxmock.AnyArg(), "id-5", "5511987654321", "direct-link", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// Known number with weaker stored source upgrades in place.
	mock.ExpectQuery(`SELECT source FROM contacts`).
		WithArgs("id-5", "5521998761234").
		WillReturnRows(pgxmock.NewRows([]string{"source"}).AddRow("link-page-context"))
	mock.ExpectExec(`UPDATE contacts SET source`).
		WithArgs("bio-text", "id-5", "5521998761234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	n, err := s.AddContacts(context.Background(), "id-5", []model.ContactRecord{
		{Number: "5511987654321", Source: model.SourceDirectLink, ExtractedAt: now},
		{Number: "5521998761234", Source: model.SourceBioText, ExtractedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertTagVariation(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO tag_variations`).
		WithArgs(pgxmock.AnyArg(), "pilates", "pilatesbrasil", int64(125000), 100, "mid", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "parent_tag", "tag", "volume", "priority", "category",
			"discovered_at", "rescrape_count", "lead_count",
		}).AddRow("id-6", "pilates", "pilatesbrasil", int64(125000), 100, "mid", now, 1, int64(0)))

	v, err := s.UpsertTagVariation(context.Background(), model.TagVariation{
		Parent: "pilates", Tag: "pilatesbrasil", Volume: 125000,
		Priority: 100, Category: model.TagCategoryMid,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v.RescrapeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWatermarks(t *testing.T) {
	s, mock := newMockStore(t)
	mark := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT watermark FROM watermarks`).
		WithArgs("profile").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO watermarks`).
		WithArgs("profile", mark, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT watermark FROM watermarks`).
		WithArgs("profile").
		WillReturnRows(pgxmock.NewRows([]string{"watermark"}).AddRow(mark))

	ctx := context.Background()
	got, err := s.GetWatermark(ctx, model.StageProfile)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, s.SetWatermark(ctx, model.StageProfile, mark))

	got, err = s.GetWatermark(ctx, model.StageProfile)
	require.NoError(t, err)
	assert.True(t, mark.Equal(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionArtifacts(t *testing.T) {
	s, mock := newMockStore(t)
	payload := []byte(`[{"name":"sessionid"}]`)

	mock.ExpectExec(`INSERT INTO session_artifacts`).
		WithArgs("platform-session", payload, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT payload FROM session_artifacts`).
		WithArgs("platform-session").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))
	mock.ExpectExec(`DELETE FROM session_artifacts`).
		WithArgs("platform-session").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	ctx := context.Background()
	require.NoError(t, s.SaveSessionArtifact(ctx, "platform-session", payload))

	got, err := s.LoadSessionArtifact(ctx, "platform-session")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, s.DeleteSessionArtifact(ctx, "platform-session"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
