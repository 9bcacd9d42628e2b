package reftab_test

import (
	"testing"

	"github.com/SPI-Birds/metadata/pkg/reftab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStudyID(t *testing.T) {
	tests := []struct {
		id  string
		res bool
	}{
		{"HOG-1", true},
		{"HOG-12", true},
		{"HO-1", false},
		{"HOGE-1", false},
		{"hog-1", false},
		{"HOG1", false},
		{"HOG-", false},
		{"", false},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, reftab.ValidStudyID(v.id), v.id)
	}
}

func TestValidSiteID(t *testing.T) {
	tests := []struct {
		id  string
		res bool
	}{
		{"HOG", true},
		{"hog", false},
		{"HO", false},
		{"HOGE", false},
		{"H1G", false},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, reftab.ValidSiteID(v.id), v.id)
	}
}

func testTables() *reftab.Tables {
	return &reftab.Tables{
		Sites: []reftab.Site{
			{SiteID: "HOG", SiteName: "Hoge Veluwe", Country: "Netherlands"},
			{SiteID: "WYT", SiteName: "Wytham Woods", Country: "United Kingdom"},
		},
		Studies: []reftab.Study{
			{StudyID: "HOG-1", SiteID: "HOG", CustodianID: "NIOO"},
			{StudyID: "HOG-2", SiteID: "HOG", CustodianID: "NIOO"},
			{StudyID: "WYT-1", SiteID: "WYT", CustodianID: "EGI"},
		},
		Species: []reftab.Species{
			{SpeciesCode: 49, SpeciesID: "FICHYP", ScientificName: "Ficedula hypoleuca"},
			{SpeciesCode: 50, SpeciesID: "PARMAJ", ScientificName: "Parus major"},
		},
	}
}

func TestTablesLookups(t *testing.T) {
	tab := testTables()

	site, ok := tab.SiteByName("Hoge Veluwe")
	require.True(t, ok)
	assert.Equal(t, "HOG", site.SiteID)

	_, ok = tab.SiteByName("hoge veluwe")
	assert.False(t, ok, "site name match is exact")

	assert.Equal(t, 2, tab.MaxStudyNumber("HOG"))
	assert.Equal(t, 1, tab.MaxStudyNumber("WYT"))
	assert.Equal(t, 0, tab.MaxStudyNumber("ZZZ"))

	assert.Equal(t, []string{"NIOO", "EGI"}, tab.CustodianIDs())

	assert.Equal(t, 50, tab.MaxSpeciesCode())
	assert.True(t, tab.HasScientificName("Parus major"))
	assert.False(t, tab.HasScientificName("Limosa limosa"))

	ids := tab.SpeciesIDs()
	_, ok = ids["PARMAJ"]
	assert.True(t, ok)
}
