// Package iomerge applies a validated conversion result to the reference
// tables.
//
// The merge fails loudly and never partially: the prior state is archived
// before anything changes, every step is fully applied before the next,
// and the final save re-checks the table invariants.
package iomerge

import (
	"context"
	"strings"

	"github.com/SPI-Birds/metadata/internal/iofs"
	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/SPI-Birds/metadata/pkg/record"
	"github.com/SPI-Birds/metadata/pkg/reftab"
)

type iomerge struct {
	repo      reftab.Repository
	countries [][2]string
}

// New creates a merger over the given repository.
func New(repo reftab.Repository) (pipeline.Merger, error) {
	countries, err := iofs.Countries()
	if err != nil {
		return nil, err
	}
	return &iomerge{repo: repo, countries: countries}, nil
}

func (m *iomerge) Merge(ctx context.Context, res *pipeline.Result) error {
	tables, err := m.repo.Load()
	if err != nil {
		return err
	}
	if err = m.repo.Archive(); err != nil {
		return err
	}

	// Data arrival and format checking are later workflows: a merged
	// study always starts without data and with an unknown format state.
	study := reftab.Study{
		StudyID:           res.IDs.StudyID,
		StudyUUID:         res.IDs.StudyUUID,
		SiteID:            res.IDs.SiteID,
		CustodianID:       res.IDs.CustodianID,
		CustodianName:     res.Submission.CustodianName,
		DataAvailable:     false,
		StandardFormatted: reftab.Unknown,
	}
	if err = m.repo.UpsertStudy(study); err != nil {
		return err
	}

	site, err := m.siteRow(res)
	if err != nil {
		return err
	}
	if err = m.repo.UpsertSite(site); err != nil {
		return err
	}

	if err = m.appendSpecies(res, tables); err != nil {
		return err
	}

	return m.repo.Save()
}

// siteRow builds the site upsert. For a pre-existing site only the
// coordinates are applied; the repository keeps name and country
// immutable.
func (m *iomerge) siteRow(res *pipeline.Result) (reftab.Site, error) {
	rec := res.Submission
	site := reftab.Site{
		SiteID:   res.IDs.SiteID,
		SiteName: rec.SiteName,
		Country:  rec.Country,
	}

	switch rec.CoordinateType {
	case record.Centroid:
		if rec.Latitude == nil || rec.Longitude == nil {
			return reftab.Site{}, SiteError(
				res.IDs.SiteID, "the centre point has no coordinates",
			)
		}
		site.Latitude = *rec.Latitude
		site.Longitude = *rec.Longitude
		site.CoordinateProvenance = string(record.Centroid)
	case record.BoundingBox:
		if rec.North == nil || rec.South == nil ||
			rec.East == nil || rec.West == nil {
			return reftab.Site{}, SiteError(
				res.IDs.SiteID, "the bounding box is incomplete",
			)
		}
		site.Latitude = (*rec.North + *rec.South) / 2
		site.Longitude = (*rec.East + *rec.West) / 2
		site.CoordinateProvenance = "bounding box centroid"
	default:
		return reftab.Site{}, SiteError(
			res.IDs.SiteID, "the coordinate shape is not specified",
		)
	}

	if res.IDs.NewSite {
		code, err := m.countryCode(rec.Country)
		if err != nil {
			return reftab.Site{}, err
		}
		site.CountryCode = code
	}
	return site, nil
}

// countryCode resolves a submitted country name to its ISO code: exact
// match first, then substring in either direction.
func (m *iomerge) countryCode(country string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(country))
	if name == "" {
		return "", CountryError(country)
	}
	for _, c := range m.countries {
		if strings.ToLower(c[0]) == name {
			return c[1], nil
		}
	}
	for _, c := range m.countries {
		known := strings.ToLower(c[0])
		if strings.Contains(known, name) || strings.Contains(name, known) {
			return c[1], nil
		}
	}
	return "", CountryError(country)
}

// appendSpecies appends a row for every resolved taxon whose accepted
// name is not in the table yet. Codes continue from the max in one pass:
// a batch of N new species gets N consecutive codes without re-reading
// the table in between.
func (m *iomerge) appendSpecies(
	res *pipeline.Result, tables *reftab.Tables,
) error {
	next := tables.MaxSpeciesCode()
	for _, c := range res.Taxa {
		if tables.HasScientificName(c.Accepted) {
			continue
		}
		speciesID, ok := res.IDs.SpeciesIDs[c.Accepted]
		if !ok {
			return SpeciesError(
				c.Accepted, "no species identifier was assigned",
			)
		}
		next++
		sp := reftab.Species{
			SpeciesCode:    next,
			SpeciesID:      speciesID,
			ScientificName: c.Accepted,
			Authorship:     c.Authorship,
			VernacularName: c.CommonName,
			GBIFID:         c.ExternalID("GBIF"),
			EOLID:          c.ExternalID("EOL"),
			COLID:          c.ExternalID("COL"),
			ITISTSN:        c.ExternalID("ITIS"),
			EuringID:       c.ExternalID("EURING"),
		}
		if err := m.repo.AppendSpecies(sp); err != nil {
			return err
		}
	}
	return nil
}
