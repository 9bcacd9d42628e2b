// Package reftabtest provides an in-memory reftab.Repository for tests.
package reftabtest

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/reftab"
)

// Compile-time contract assertion.
var _ reftab.Repository = (*Repository)(nil)

// Repository keeps the three reference tables in memory and records the
// order of repository calls, so tests can assert that the merger archives
// before mutating and saves last.
type Repository struct {
	Tables   reftab.Tables
	Archived int
	Saved    int
	Calls    []string
	// FailSave, when set, makes Save return this error.
	FailSave error
}

// New creates a Repository pre-seeded with the given tables.
func New(tables reftab.Tables) *Repository {
	return &Repository{Tables: tables}
}

func (r *Repository) Load() (*reftab.Tables, error) {
	r.Calls = append(r.Calls, "load")
	cp := reftab.Tables{
		Sites:   append([]reftab.Site(nil), r.Tables.Sites...),
		Studies: append([]reftab.Study(nil), r.Tables.Studies...),
		Species: append([]reftab.Species(nil), r.Tables.Species...),
	}
	return &cp, nil
}

func (r *Repository) Archive() error {
	r.Calls = append(r.Calls, "archive")
	r.Archived++
	return nil
}

func (r *Repository) UpsertSite(site reftab.Site) error {
	r.Calls = append(r.Calls, "upsertSite")
	for i, s := range r.Tables.Sites {
		if s.SiteID == site.SiteID {
			// Name and country are immutable once set.
			s.Latitude = site.Latitude
			s.Longitude = site.Longitude
			s.CoordinateProvenance = site.CoordinateProvenance
			r.Tables.Sites[i] = s
			return nil
		}
	}
	r.Tables.Sites = append(r.Tables.Sites, site)
	return nil
}

func (r *Repository) UpsertStudy(study reftab.Study) error {
	r.Calls = append(r.Calls, "upsertStudy")
	for i, s := range r.Tables.Studies {
		if s.StudyID == study.StudyID {
			s.CustodianID = study.CustodianID
			s.CustodianName = study.CustodianName
			s.DataAvailable = study.DataAvailable
			s.StandardFormatted = study.StandardFormatted
			r.Tables.Studies[i] = s
			return nil
		}
	}
	r.Tables.Studies = append(r.Tables.Studies, study)
	return nil
}

func (r *Repository) AppendSpecies(sp reftab.Species) error {
	r.Calls = append(r.Calls, "appendSpecies")
	for _, s := range r.Tables.Species {
		if s.SpeciesID == sp.SpeciesID {
			return fmt.Errorf("speciesID collision: %s", sp.SpeciesID)
		}
	}
	r.Tables.Species = append(r.Tables.Species, sp)
	return nil
}

func (r *Repository) Save() error {
	r.Calls = append(r.Calls, "save")
	if r.FailSave != nil {
		return r.FailSave
	}
	r.Saved++
	return nil
}
