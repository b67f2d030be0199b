package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/atendai/leadscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                  TEXT PRIMARY KEY,
	handle              TEXT NOT NULL UNIQUE,
	display_name        TEXT NOT NULL DEFAULT '',
	biography           TEXT NOT NULL DEFAULT '',
	external_url        TEXT NOT NULL DEFAULT '',
	followers           INTEGER NOT NULL DEFAULT 0,
	following           INTEGER NOT NULL DEFAULT 0,
	posts               INTEGER NOT NULL DEFAULT 0,
	city                TEXT NOT NULL DEFAULT '',
	state               TEXT NOT NULL DEFAULT '',
	is_business         INTEGER NOT NULL DEFAULT 0,
	category            TEXT NOT NULL DEFAULT '',
	email               TEXT NOT NULL DEFAULT '',
	primary_phone       TEXT NOT NULL DEFAULT '',
	profile_status      TEXT NOT NULL DEFAULT 'pending',
	tags_status         TEXT NOT NULL DEFAULT 'pending',
	bio_contact_status  TEXT NOT NULL DEFAULT 'pending',
	link_contact_status TEXT NOT NULL DEFAULT 'pending',
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id           TEXT PRIMARY KEY,
	lead_id      TEXT NOT NULL REFERENCES leads(id),
	number       TEXT NOT NULL,
	source       TEXT NOT NULL,
	extracted_at DATETIME NOT NULL,
	UNIQUE(lead_id, number)
);

CREATE TABLE IF NOT EXISTS tag_variations (
	id             TEXT PRIMARY KEY,
	parent_tag     TEXT NOT NULL,
	tag            TEXT NOT NULL,
	volume         INTEGER NOT NULL DEFAULT 0,
	priority       INTEGER NOT NULL DEFAULT 0,
	category       TEXT NOT NULL DEFAULT 'niche',
	discovered_at  DATETIME NOT NULL,
	rescrape_count INTEGER NOT NULL DEFAULT 0,
	lead_count     INTEGER NOT NULL DEFAULT 0,
	UNIQUE(parent_tag, tag)
);

CREATE TABLE IF NOT EXISTS watermarks (
	stage      TEXT PRIMARY KEY,
	watermark  DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS session_artifacts (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
CREATE INDEX IF NOT EXISTS idx_leads_profile_status ON leads(profile_status);
CREATE INDEX IF NOT EXISTS idx_leads_tags_status ON leads(tags_status);
CREATE INDEX IF NOT EXISTS idx_leads_bio_contact_status ON leads(bio_contact_status);
CREATE INDEX IF NOT EXISTS idx_leads_link_contact_status ON leads(link_contact_status);
CREATE INDEX IF NOT EXISTS idx_contacts_lead_id ON contacts(lead_id);
CREATE INDEX IF NOT EXISTS idx_tag_variations_parent ON tag_variations(parent_tag);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const leadColumns = `id, handle, display_name, biography, external_url,
	followers, following, posts, city, state, is_business, category, email,
	primary_phone, profile_status, tags_status, bio_contact_status,
	link_contact_status, created_at, updated_at`

// UpsertLead inserts a lead for the handle or returns the existing row.
// Enrichment state is never reset by re-discovery.
func (s *SQLiteStore) UpsertLead(ctx context.Context, handle string) (*model.Lead, error) {
	existing, err := s.GetLeadByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, handle, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(handle) DO NOTHING`,
		uuid.New().String(), handle, now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert lead %s", handle)
	}
	return s.GetLeadByHandle(ctx, handle)
}

func (s *SQLiteStore) GetLeadByHandle(ctx context.Context, handle string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE handle = ?`, handle)
	lead, err := scanLead(row)
	if noRows(err) {
		return nil, nil
	}
	return lead, err
}

func (s *SQLiteStore) ListLeadsForStage(ctx context.Context, stage model.Stage, after time.Time, limit int) ([]model.Lead, error) {
	column, err := stageColumn(stage)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + column + ` = ? AND created_at > ?`
	if extra := stageSourceFilter(stage); extra != "" {
		query += ` AND ` + extra
	}
	query += ` ORDER BY created_at ASC LIMIT ?`
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, query, string(model.StageStatusPending), after.UTC(), limit)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list leads for stage %s", stage)
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) SetStageStatus(ctx context.Context, leadID string, stage model.Stage, status model.StageStatus) error {
	column, err := stageColumn(stage)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set %s for lead %s", column, leadID)
	}
	return checkRowsAffected(res, "lead", leadID)
}

// ResetStage flips every terminal outcome for a stage back to pending.
func (s *SQLiteStore) ResetStage(ctx context.Context, stage model.Stage) (int64, error) {
	column, err := stageColumn(stage)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET `+column+` = ?, updated_at = ? WHERE `+column+` <> ?`,
		string(model.StageStatusPending), time.Now().UTC(), string(model.StageStatusPending),
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: reset stage %s", stage)
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) ApplySnapshot(ctx context.Context, leadID string, snap *model.ProfileSnapshot) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET display_name = ?, biography = ?, external_url = ?,
		 followers = ?, following = ?, posts = ?, is_business = ?, category = ?,
		 email = ?, updated_at = ? WHERE id = ?`,
		snap.DisplayName, snap.Biography, snap.ExternalURL,
		snap.Followers, snap.Following, snap.Posts, snap.IsBusiness, snap.Category,
		snap.Email, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: apply snapshot for lead %s", leadID)
	}
	return checkRowsAffected(res, "lead", leadID)
}

func (s *SQLiteStore) SetLocation(ctx context.Context, leadID, city, state string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET city = ?, state = ?, updated_at = ? WHERE id = ?`,
		city, state, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set location for lead %s", leadID)
	}
	return checkRowsAffected(res, "lead", leadID)
}

func (s *SQLiteStore) SetPrimaryPhone(ctx context.Context, leadID, number string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET primary_phone = ?, updated_at = ? WHERE id = ?`,
		number, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set primary phone for lead %s", leadID)
	}
	return checkRowsAffected(res, "lead", leadID)
}

// AddContacts appends records, deduplicating by number. An existing row
// keeps its source unless the new record carries higher precedence. The
// returned count covers newly inserted numbers only.
func (s *SQLiteStore) AddContacts(ctx context.Context, leadID string, records []model.ContactRecord) (int, error) {
	inserted := 0
	for _, rec := range records {
		var existingSource string
		err := s.db.QueryRowContext(ctx,
			`SELECT source FROM contacts WHERE lead_id = ? AND number = ?`,
			leadID, rec.Number,
		).Scan(&existingSource)

		switch {
		case err == sql.ErrNoRows:
			_, err = s.db.ExecContext(ctx,
				`INSERT INTO contacts (id, lead_id, number, source, extracted_at) VALUES (?, ?, ?, ?, ?)`,
				uuid.New().String(), leadID, rec.Number, string(rec.Source), rec.ExtractedAt.UTC(),
			)
			if err != nil {
				return inserted, eris.Wrapf(err, "sqlite: insert contact for lead %s", leadID)
			}
			inserted++
		case err != nil:
			return inserted, eris.Wrapf(err, "sqlite: query contact for lead %s", leadID)
		default:
			if rec.Source.Precedence() < model.ContactSource(existingSource).Precedence() {
				_, err = s.db.ExecContext(ctx,
					`UPDATE contacts SET source = ? WHERE lead_id = ? AND number = ?`,
					string(rec.Source), leadID, rec.Number,
				)
				if err != nil {
					return inserted, eris.Wrapf(err, "sqlite: upgrade contact source for lead %s", leadID)
				}
			}
		}
	}
	return inserted, nil
}

func (s *SQLiteStore) ListContacts(ctx context.Context, leadID string) ([]model.ContactRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, number, source, extracted_at FROM contacts
		 WHERE lead_id = ? ORDER BY extracted_at ASC, number ASC`,
		leadID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list contacts for lead %s", leadID)
	}
	defer rows.Close()

	var records []model.ContactRecord
	for rows.Next() {
		var rec model.ContactRecord
		var source string
		if err := rows.Scan(&rec.ID, &rec.LeadID, &rec.Number, &source, &rec.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		rec.Source = model.ContactSource(source)
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list contacts iterate")
}

// UpsertTagVariation inserts a variation or, when the (parent, tag) pair
// already exists, re-scores it and increments the re-scrape counter.
func (s *SQLiteStore) UpsertTagVariation(ctx context.Context, v model.TagVariation) (*model.TagVariation, error) {
	existing, err := s.getTagVariation(ctx, v.Parent, v.Tag)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		v.ID = uuid.New().String()
		if v.DiscoveredAt.IsZero() {
			v.DiscoveredAt = time.Now().UTC()
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO tag_variations (id, parent_tag, tag, volume, priority, category, discovered_at, rescrape_count, lead_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0)`,
			v.ID, v.Parent, v.Tag, v.Volume, v.Priority, string(v.Category), v.DiscoveredAt.UTC(),
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert tag variation %s/%s", v.Parent, v.Tag)
		}
		return s.getTagVariation(ctx, v.Parent, v.Tag)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE tag_variations SET volume = ?, priority = ?, category = ?, rescrape_count = rescrape_count + 1
		 WHERE parent_tag = ? AND tag = ?`,
		v.Volume, v.Priority, string(v.Category), v.Parent, v.Tag,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update tag variation %s/%s", v.Parent, v.Tag)
	}
	return s.getTagVariation(ctx, v.Parent, v.Tag)
}

func (s *SQLiteStore) getTagVariation(ctx context.Context, parent, tag string) (*model.TagVariation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, parent_tag, tag, volume, priority, category, discovered_at, rescrape_count, lead_count
		 FROM tag_variations WHERE parent_tag = ? AND tag = ?`,
		parent, tag,
	)
	v, err := scanTagVariation(row)
	if noRows(err) {
		return nil, nil
	}
	return v, err
}

func (s *SQLiteStore) ListTagVariations(ctx context.Context, parent string) ([]model.TagVariation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_tag, tag, volume, priority, category, discovered_at, rescrape_count, lead_count
		 FROM tag_variations WHERE parent_tag = ? ORDER BY priority DESC, tag ASC`,
		parent,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list tag variations for %s", parent)
	}
	defer rows.Close()

	var variations []model.TagVariation
	for rows.Next() {
		v, err := scanTagVariation(rows)
		if err != nil {
			return nil, err
		}
		variations = append(variations, *v)
	}
	return variations, eris.Wrap(rows.Err(), "sqlite: list tag variations iterate")
}

func (s *SQLiteStore) IncrementTagLeadCount(ctx context.Context, parent, tag string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tag_variations SET lead_count = lead_count + 1 WHERE parent_tag = ? AND tag = ?`,
		parent, tag,
	)
	return eris.Wrapf(err, "sqlite: increment lead count %s/%s", parent, tag)
}

// GetWatermark returns the persisted cursor for a stage, or the zero time
// when the stage has never run.
func (s *SQLiteStore) GetWatermark(ctx context.Context, stage model.Stage) (time.Time, error) {
	var watermark time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT watermark FROM watermarks WHERE stage = ?`, string(stage),
	).Scan(&watermark)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "sqlite: get watermark for %s", stage)
	}
	return watermark.UTC(), nil
}

func (s *SQLiteStore) SetWatermark(ctx context.Context, stage model.Stage, watermark time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watermarks (stage, watermark, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(stage) DO UPDATE SET watermark = excluded.watermark, updated_at = excluded.updated_at`,
		string(stage), watermark.UTC(), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: set watermark for %s", stage)
}

func (s *SQLiteStore) StageCounts(ctx context.Context) (map[model.Stage]map[model.StageStatus]int64, error) {
	counts := make(map[model.Stage]map[model.StageStatus]int64, len(model.Stages))
	for _, stage := range model.Stages {
		column, err := stageColumn(stage)
		if err != nil {
			return nil, err
		}
		byStatus, err := s.countByStatus(ctx, column)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: stage counts for %s", stage)
		}
		counts[stage] = byStatus
	}
	return counts, nil
}

func (s *SQLiteStore) countByStatus(ctx context.Context, column string) (map[model.StageStatus]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM leads GROUP BY `+column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byStatus := make(map[model.StageStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		byStatus[model.StageStatus(status)] = n
	}
	return byStatus, rows.Err()
}

func (s *SQLiteStore) LoadSessionArtifact(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM session_artifacts WHERE key = ?`, key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load session artifact %s", key)
	}
	return payload, nil
}

func (s *SQLiteStore) SaveSessionArtifact(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_artifacts (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save session artifact %s", key)
}

func (s *SQLiteStore) DeleteSessionArtifact(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_artifacts WHERE key = ?`, key)
	return eris.Wrapf(err, "sqlite: delete session artifact %s", key)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
