package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/atendai/leadscout/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                  TEXT PRIMARY KEY,
	handle              TEXT NOT NULL UNIQUE,
	display_name        TEXT NOT NULL DEFAULT '',
	biography           TEXT NOT NULL DEFAULT '',
	external_url        TEXT NOT NULL DEFAULT '',
	followers           BIGINT NOT NULL DEFAULT 0,
	following           BIGINT NOT NULL DEFAULT 0,
	posts               BIGINT NOT NULL DEFAULT 0,
	city                TEXT NOT NULL DEFAULT '',
	state               TEXT NOT NULL DEFAULT '',
	is_business         BOOLEAN NOT NULL DEFAULT FALSE,
	category            TEXT NOT NULL DEFAULT '',
	email               TEXT NOT NULL DEFAULT '',
	primary_phone       TEXT NOT NULL DEFAULT '',
	profile_status      TEXT NOT NULL DEFAULT 'pending',
	tags_status         TEXT NOT NULL DEFAULT 'pending',
	bio_contact_status  TEXT NOT NULL DEFAULT 'pending',
	link_contact_status TEXT NOT NULL DEFAULT 'pending',
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id           TEXT PRIMARY KEY,
	lead_id      TEXT NOT NULL REFERENCES leads(id),
	number       TEXT NOT NULL,
	source       TEXT NOT NULL,
	extracted_at TIMESTAMPTZ NOT NULL,
	UNIQUE(lead_id, number)
);

CREATE TABLE IF NOT EXISTS tag_variations (
	id             TEXT PRIMARY KEY,
	parent_tag     TEXT NOT NULL,
	tag            TEXT NOT NULL,
	volume         BIGINT NOT NULL DEFAULT 0,
	priority       INTEGER NOT NULL DEFAULT 0,
	category       TEXT NOT NULL DEFAULT 'niche',
	discovered_at  TIMESTAMPTZ NOT NULL,
	rescrape_count INTEGER NOT NULL DEFAULT 0,
	lead_count     INTEGER NOT NULL DEFAULT 0,
	UNIQUE(parent_tag, tag)
);

CREATE TABLE IF NOT EXISTS watermarks (
	stage      TEXT PRIMARY KEY,
	watermark  TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS session_artifacts (
	key        TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
CREATE INDEX IF NOT EXISTS idx_leads_profile_status ON leads(profile_status);
CREATE INDEX IF NOT EXISTS idx_leads_tags_status ON leads(tags_status);
CREATE INDEX IF NOT EXISTS idx_leads_bio_contact_status ON leads(bio_contact_status);
CREATE INDEX IF NOT EXISTS idx_leads_link_contact_status ON leads(link_contact_status);
CREATE INDEX IF NOT EXISTS idx_contacts_lead_id ON contacts(lead_id);
CREATE INDEX IF NOT EXISTS idx_tag_variations_parent ON tag_variations(parent_tag);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertLead(ctx context.Context, handle string) (*model.Lead, error) {
	existing, err := s.GetLeadByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, handle, created_at, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (handle) DO NOTHING`,
		uuid.New().String(), handle, now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert lead %s", handle)
	}
	return s.GetLeadByHandle(ctx, handle)
}

func (s *PostgresStore) GetLeadByHandle(ctx context.Context, handle string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE handle = $1`, handle)
	lead, err := scanLead(row)
	if noRows(err) {
		return nil, nil
	}
	return lead, err
}

func (s *PostgresStore) ListLeadsForStage(ctx context.Context, stage model.Stage, after time.Time, limit int) ([]model.Lead, error) {
	column, err := stageColumn(stage)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + column + ` = $1 AND created_at > $2`
	if extra := stageSourceFilter(stage); extra != "" {
		query += ` AND ` + extra
	}
	query += ` ORDER BY created_at ASC LIMIT $3`
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, query, string(model.StageStatusPending), after.UTC(), limit)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list leads for stage %s", stage)
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
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) SetStageStatus(ctx context.Context, leadID string, stage model.Stage, status model.StageStatus) error {
	column, err := stageColumn(stage)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET `+column+` = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set %s for lead %s", column, leadID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", leadID)
	}
	return nil
}

func (s *PostgresStore) ResetStage(ctx context.Context, stage model.Stage) (int64, error) {
	column, err := stageColumn(stage)
	if err != nil {
		return 0, err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET `+column+` = $1, updated_at = $2 WHERE `+column+` <> $1`,
		string(model.StageStatusPending), time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: reset stage %s", stage)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) ApplySnapshot(ctx context.Context, leadID string, snap *model.ProfileSnapshot) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET display_name = $1, biography = $2, external_url = $3,
		 followers = $4, following = $5, posts = $6, is_business = $7, category = $8,
		 email = $9, updated_at = $10 WHERE id = $11`,
		snap.DisplayName, snap.Biography, snap.ExternalURL,
		snap.Followers, snap.Following, snap.Posts, snap.IsBusiness, snap.Category,
		snap.Email, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: apply snapshot for lead %s", leadID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", leadID)
	}
	return nil
}

func (s *PostgresStore) SetLocation(ctx context.Context, leadID, city, state string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET city = $1, state = $2, updated_at = $3 WHERE id = $4`,
		city, state, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set location for lead %s", leadID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", leadID)
	}
	return nil
}

func (s *PostgresStore) SetPrimaryPhone(ctx context.Context, leadID, number string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET primary_phone = $1, updated_at = $2 WHERE id = $3`,
		number, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set primary phone for lead %s", leadID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", leadID)
	}
	return nil
}

func (s *PostgresStore) AddContacts(ctx context.Context, leadID string, records []model.ContactRecord) (int, error) {
	inserted := 0
	for _, rec := range records {
		var existingSource string
		err := s.pool.QueryRow(ctx,
			`SELECT source FROM contacts WHERE lead_id = $1 AND number = $2`,
			leadID, rec.Number,
		).Scan(&existingSource)

		switch {
		case err == pgx.ErrNoRows:
			_, err = s.pool.Exec(ctx,
				`INSERT INTO contacts (id, lead_id, number, source, extracted_at) VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(), leadID, rec.Number, string(rec.Source), rec.ExtractedAt.UTC(),
			)
			if err != nil {
				return inserted, eris.Wrapf(err, "postgres: insert contact for lead %s", leadID)
			}
			inserted++
		case err != nil:
			return inserted, eris.Wrapf(err, "postgres: query contact for lead %s", leadID)
		default:
			if rec.Source.Precedence() < model.ContactSource(existingSource).Precedence() {
				_, err = s.pool.Exec(ctx,
					`UPDATE contacts SET source = $1 WHERE lead_id = $2 AND number = $3`,
					string(rec.Source), leadID, rec.Number,
				)
				if err != nil {
					return inserted, eris.Wrapf(err, "postgres: upgrade contact source for lead %s", leadID)
				}
			}
		}
	}
	return inserted, nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, leadID string) ([]model.ContactRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, lead_id, number, source, extracted_at FROM contacts
		 WHERE lead_id = $1 ORDER BY extracted_at ASC, number ASC`,
		leadID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list contacts for lead %s", leadID)
	}
	defer rows.Close()

	var records []model.ContactRecord
	for rows.Next() {
		var rec model.ContactRecord
		var source string
		if err := rows.Scan(&rec.ID, &rec.LeadID, &rec.Number, &source, &rec.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		rec.Source = model.ContactSource(source)
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list contacts iterate")
}

func (s *PostgresStore) UpsertTagVariation(ctx context.Context, v model.TagVariation) (*model.TagVariation, error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.DiscoveredAt.IsZero() {
		v.DiscoveredAt = time.Now().UTC()
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tag_variations (id, parent_tag, tag, volume, priority, category, discovered_at, rescrape_count, lead_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0)
		 ON CONFLICT (parent_tag, tag) DO UPDATE SET
			volume = excluded.volume,
			priority = excluded.priority,
			category = excluded.category,
			rescrape_count = tag_variations.rescrape_count + 1
		 RETURNING id, parent_tag, tag, volume, priority, category, discovered_at, rescrape_count, lead_count`,
		v.ID, v.Parent, v.Tag, v.Volume, v.Priority, string(v.Category), v.DiscoveredAt.UTC(),
	)
	out, err := scanTagVariation(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert tag variation %s/%s", v.Parent, v.Tag)
	}
	return out, nil
}

func (s *PostgresStore) ListTagVariations(ctx context.Context, parent string) ([]model.TagVariation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, parent_tag, tag, volume, priority, category, discovered_at, rescrape_count, lead_count
		 FROM tag_variations WHERE parent_tag = $1 ORDER BY priority DESC, tag ASC`,
		parent,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list tag variations for %s", parent)
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
	return variations, eris.Wrap(rows.Err(), "postgres: list tag variations iterate")
}

func (s *PostgresStore) IncrementTagLeadCount(ctx context.Context, parent, tag string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE tag_variations SET lead_count = lead_count + 1 WHERE parent_tag = $1 AND tag = $2`,
		parent, tag,
	)
	return eris.Wrapf(err, "postgres: increment lead count %s/%s", parent, tag)
}

func (s *PostgresStore) GetWatermark(ctx context.Context, stage model.Stage) (time.Time, error) {
	var watermark time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT watermark FROM watermarks WHERE stage = $1`, string(stage),
	).Scan(&watermark)
	if err == pgx.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "postgres: get watermark for %s", stage)
	}
	return watermark.UTC(), nil
}

func (s *PostgresStore) SetWatermark(ctx context.Context, stage model.Stage, watermark time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO watermarks (stage, watermark, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (stage) DO UPDATE SET watermark = excluded.watermark, updated_at = excluded.updated_at`,
		string(stage), watermark.UTC(), time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: set watermark for %s", stage)
}

func (s *PostgresStore) StageCounts(ctx context.Context) (map[model.Stage]map[model.StageStatus]int64, error) {
	counts := make(map[model.Stage]map[model.StageStatus]int64, len(model.Stages))
	for _, stage := range model.Stages {
		column, err := stageColumn(stage)
		if err != nil {
			return nil, err
		}
		rows, err := s.pool.Query(ctx,
			`SELECT `+column+`, COUNT(*) FROM leads GROUP BY `+column)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: stage counts for %s", stage)
		}
		byStatus := make(map[model.StageStatus]int64)
		for rows.Next() {
			var status string
			var n int64
			if err := rows.Scan(&status, &n); err != nil {
				rows.Close()
				return nil, eris.Wrap(err, "postgres: scan stage count")
			}
			byStatus[model.StageStatus(status)] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: stage counts iterate")
		}
		rows.Close()
		counts[stage] = byStatus
	}
	return counts, nil
}

func (s *PostgresStore) LoadSessionArtifact(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM session_artifacts WHERE key = $1`, key,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load session artifact %s", key)
	}
	return payload, nil
}

func (s *PostgresStore) SaveSessionArtifact(ctx context.Context, key string, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_artifacts (key, payload, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save session artifact %s", key)
}

func (s *PostgresStore) DeleteSessionArtifact(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM session_artifacts WHERE key = $1`, key)
	return eris.Wrapf(err, "postgres: delete session artifact %s", key)
}
