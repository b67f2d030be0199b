package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/atendai/leadscout/internal/model"
)

// scannable covers *sql.Row, *sql.Rows, pgx.Row and pgx.Rows so both
// drivers share the row-to-model mapping.
type scannable interface {
	Scan(dest ...any) error
}

// noRows reports whether err is either driver's empty-result sentinel.
func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var profileStatus, tagsStatus, bioStatus, linkStatus string
	err := row.Scan(
		&l.ID, &l.Handle, &l.DisplayName, &l.Biography, &l.ExternalURL,
		&l.Followers, &l.Following, &l.Posts, &l.City, &l.State,
		&l.IsBusiness, &l.Category, &l.Email, &l.PrimaryPhone,
		&profileStatus, &tagsStatus, &bioStatus, &linkStatus,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, err
		}
		return nil, eris.Wrap(err, "store: scan lead")
	}
	l.ProfileStatus = model.StageStatus(profileStatus)
	l.TagsStatus = model.StageStatus(tagsStatus)
	l.BioContactStatus = model.StageStatus(bioStatus)
	l.LinkContactStatus = model.StageStatus(linkStatus)
	return &l, nil
}

func scanTagVariation(row scannable) (*model.TagVariation, error) {
	var v model.TagVariation
	var category string
	err := row.Scan(
		&v.ID, &v.Parent, &v.Tag, &v.Volume, &v.Priority, &category,
		&v.DiscoveredAt, &v.RescrapeCount, &v.LeadCount,
	)
	if err != nil {
		if noRows(err) {
			return nil, err
		}
		return nil, eris.Wrap(err, "store: scan tag variation")
	}
	v.Category = model.TagCategory(category)
	return &v, nil
}
