package ioreftab_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SPI-Birds/metadata/internal/ioreftab"
	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/SPI-Birds/metadata/pkg/reftab"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
)

func newRepo(t *testing.T) (reftab.Repository, string, string) {
	t.Helper()
	dataDir := t.TempDir()
	archiveDir := filepath.Join(dataDir, "archive")
	assert.Nil(t, os.MkdirAll(archiveDir, 0755))
	return ioreftab.New(dataDir, archiveDir), dataDir, archiveDir
}

func TestLoadEmpty(t *testing.T) {
	assert := assert.New(t)
	repo, _, _ := newRepo(t)

	tables, err := repo.Load()
	assert.Nil(err)
	assert.Empty(tables.Sites)
	assert.Empty(tables.Studies)
	assert.Empty(tables.Species)
}

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)
	repo, _, _ := newRepo(t)

	_, err := repo.Load()
	assert.Nil(err)

	err = repo.UpsertSite(reftab.Site{
		SiteID: "HOG", SiteName: "Hoge Veluwe",
		Country: "Netherlands", CountryCode: "NL",
		Latitude: 52.0, Longitude: 5.74,
		CoordinateProvenance: "a centre point",
	})
	assert.Nil(err)
	err = repo.UpsertStudy(reftab.Study{
		StudyID: "HOG-1", StudyUUID: "5cb2ccbe-3f26-5dc6-a234-63058cd5c3a0", SiteID: "HOG",
		CustodianID: "NIOO", CustodianName: "NIOO-KNAW",
		StandardFormatted: reftab.Unknown,
	})
	assert.Nil(err)
	err = repo.AppendSpecies(reftab.Species{
		SpeciesCode: 1, SpeciesID: "PARMAJ",
		ScientificName: "Parus major", Authorship: "Linnaeus, 1758",
		VernacularName: "Great Tit", GBIFID: "2487878", EuringID: "14640",
	})
	assert.Nil(err)
	assert.Nil(repo.Save())

	// A fresh repository over the same directory reads the same state.
	tables, err := repo.Load()
	assert.Nil(err)
	assert.Equal(1, len(tables.Sites))
	assert.Equal(52.0, tables.Sites[0].Latitude)
	assert.Equal(1, len(tables.Studies))
	assert.Equal(reftab.Unknown, tables.Studies[0].StandardFormatted)
	assert.False(tables.Studies[0].DataAvailable)
	assert.Equal(1, len(tables.Species))
	assert.Equal("Parus major", tables.Species[0].ScientificName)
	assert.Equal("14640", tables.Species[0].EuringID)
}

func TestUpsertSiteKeepsNameAndCountry(t *testing.T) {
	assert := assert.New(t)
	repo, _, _ := newRepo(t)

	_, err := repo.Load()
	assert.Nil(err)
	assert.Nil(repo.UpsertSite(reftab.Site{
		SiteID: "HOG", SiteName: "Hoge Veluwe", Country: "Netherlands",
		CountryCode: "NL", Latitude: 52.0, Longitude: 5.74,
	}))
	assert.Nil(repo.UpsertStudy(reftab.Study{
		StudyID: "HOG-1", SiteID: "HOG", StandardFormatted: reftab.Unknown,
	}))
	assert.Nil(repo.Save())

	tables, err := repo.Load()
	assert.Nil(err)
	assert.Equal(1, len(tables.Sites))

	// The second upsert only moves the coordinates.
	assert.Nil(repo.UpsertSite(reftab.Site{
		SiteID: "HOG", SiteName: "Renamed", Country: "Elsewhere",
		Latitude: 52.1, Longitude: 5.8,
	}))
	assert.Nil(repo.Save())

	tables, err = repo.Load()
	assert.Nil(err)
	assert.Equal("Hoge Veluwe", tables.Sites[0].SiteName)
	assert.Equal("Netherlands", tables.Sites[0].Country)
	assert.Equal(52.1, tables.Sites[0].Latitude)
}

func TestUpsertStudyUpdatesInPlace(t *testing.T) {
	assert := assert.New(t)
	repo, _, _ := newRepo(t)

	_, err := repo.Load()
	assert.Nil(err)
	assert.Nil(repo.UpsertSite(reftab.Site{SiteID: "HOG", SiteName: "Hoge Veluwe"}))
	assert.Nil(repo.UpsertStudy(reftab.Study{
		StudyID: "HOG-1", StudyUUID: "5cb2ccbe-3f26-5dc6-a234-63058cd5c3a0", SiteID: "HOG",
		CustodianID: "OLD", StandardFormatted: reftab.Unknown,
	}))
	assert.Nil(repo.UpsertStudy(reftab.Study{
		StudyID: "HOG-1", StudyUUID: "0a0c2a2e-66f1-5f30-9a2d-8f6a1d2b3c4d", SiteID: "HOG",
		CustodianID: "NEW", StandardFormatted: reftab.Unknown,
	}))
	assert.Nil(repo.Save())

	tables, err := repo.Load()
	assert.Nil(err)
	assert.Equal(1, len(tables.Studies))
	assert.Equal("NEW", tables.Studies[0].CustodianID)
	// The UUID is stable across updates of the same study.
	assert.Equal("5cb2ccbe-3f26-5dc6-a234-63058cd5c3a0", tables.Studies[0].StudyUUID)
}

func TestArchive(t *testing.T) {
	assert := assert.New(t)
	repo, _, archiveDir := newRepo(t)

	_, err := repo.Load()
	assert.Nil(err)
	assert.Nil(repo.UpsertSite(reftab.Site{SiteID: "HOG", SiteName: "Hoge Veluwe"}))
	assert.Nil(repo.Save())

	assert.Nil(repo.Archive())

	matches, err := filepath.Glob(filepath.Join(archiveDir, "sites_*.csv"))
	assert.Nil(err)
	assert.Equal(1, len(matches))
}

func TestArchiveWithoutTables(t *testing.T) {
	assert := assert.New(t)
	repo, _, archiveDir := newRepo(t)

	// Nothing saved yet: archiving is a no-op, not a failure.
	assert.Nil(repo.Archive())
	matches, err := filepath.Glob(filepath.Join(archiveDir, "*.csv"))
	assert.Nil(err)
	assert.Empty(matches)
}

func TestSaveRejectsIntegrityViolations(t *testing.T) {
	assert := assert.New(t)

	check := func(mutate func(repo reftab.Repository), problem string) {
		repo, _, _ := newRepo(t)
		_, err := repo.Load()
		assert.Nil(err)
		mutate(repo)
		err = repo.Save()
		assert.NotNil(err, problem)
		gnErr, ok := err.(*gn.Error)
		assert.True(ok, problem)
		assert.Equal(errcode.TableIntegrityError, gnErr.Code, problem)
	}

	check(func(repo reftab.Repository) {
		repo.UpsertSite(reftab.Site{SiteID: "TOOLONG"})
	}, "bad site id")

	check(func(repo reftab.Repository) {
		repo.UpsertSite(reftab.Site{SiteID: "HOG"})
		repo.UpsertStudy(reftab.Study{StudyID: "HOG-1", SiteID: "VLI"})
	}, "dangling study site")

	check(func(repo reftab.Repository) {
		repo.UpsertSite(reftab.Site{SiteID: "HOG"})
		repo.UpsertStudy(reftab.Study{
			StudyID: "HOG-1", SiteID: "HOG", StudyUUID: "not-a-uuid",
		})
	}, "malformed study uuid")

	check(func(repo reftab.Repository) {
		repo.AppendSpecies(reftab.Species{SpeciesCode: 1, SpeciesID: "PARMAJ"})
		repo.AppendSpecies(reftab.Species{SpeciesCode: 2, SpeciesID: "PARMAJ"})
	}, "duplicate species id")

	check(func(repo reftab.Repository) {
		repo.AppendSpecies(reftab.Species{SpeciesCode: 2, SpeciesID: "PARMAJ"})
		repo.AppendSpecies(reftab.Species{SpeciesCode: 2, SpeciesID: "CYACAE"})
	}, "non-increasing species code")
}

func TestMutationBeforeLoad(t *testing.T) {
	assert := assert.New(t)
	repo, _, _ := newRepo(t)

	err := repo.UpsertSite(reftab.Site{SiteID: "HOG"})
	assert.NotNil(err)
}
