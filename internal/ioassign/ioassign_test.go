package ioassign_test

import (
	"context"
	"testing"

	"github.com/SPI-Birds/metadata/internal/ioassign"
	"github.com/SPI-Birds/metadata/pkg/pipeline/pipelinetest"
	"github.com/SPI-Birds/metadata/pkg/reftab"
	"github.com/stretchr/testify/assert"
)

func tables() *reftab.Tables {
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
			{SpeciesCode: 1, SpeciesID: "PARMAJ", ScientificName: "Parus major"},
		},
	}
}

func TestAssignKnownSiteNewStudy(t *testing.T) {
	assert := assert.New(t)
	script := &pipelinetest.Script{Choices: []int{0}}
	a := ioassign.New(script)

	siteID, studyID, newSite, newStudy, err := a.AssignSiteAndStudy(
		context.Background(), "Hoge Veluwe", tables(),
	)
	assert.Nil(err)
	assert.Equal("HOG", siteID)
	assert.Equal("HOG-3", studyID)
	assert.False(newSite)
	assert.True(newStudy)
}

func TestAssignKnownSiteUpdate(t *testing.T) {
	assert := assert.New(t)
	script := &pipelinetest.Script{
		Choices: []int{1},
		// Malformed, wrong site, then valid.
		Values: []string{"hog2", "WYT-1", "HOG-2"},
	}
	a := ioassign.New(script)

	siteID, studyID, newSite, newStudy, err := a.AssignSiteAndStudy(
		context.Background(), "Hoge Veluwe", tables(),
	)
	assert.Nil(err)
	assert.Equal("HOG", siteID)
	assert.Equal("HOG-2", studyID)
	assert.False(newSite)
	assert.False(newStudy)
	assert.Equal(4, len(script.Prompts))
}

func TestAssignNewSite(t *testing.T) {
	assert := assert.New(t)
	script := &pipelinetest.Script{
		// Too long, taken, then fresh.
		Values: []string{"VLIE", "HOG", "vli"},
	}
	a := ioassign.New(script)

	siteID, studyID, newSite, newStudy, err := a.AssignSiteAndStudy(
		context.Background(), "Vlieland", tables(),
	)
	assert.Nil(err)
	assert.Equal("VLI", siteID)
	assert.Equal("VLI-1", studyID)
	assert.True(newSite)
	assert.True(newStudy)
}

func TestAssignCustodianFresh(t *testing.T) {
	assert := assert.New(t)
	script := &pipelinetest.Script{Values: []string{"UAN"}}
	a := ioassign.New(script)

	id, err := a.AssignCustodianID(
		context.Background(), "University of Antwerp", tables(),
	)
	assert.Nil(err)
	assert.Equal("UAN", id)
}

func TestAssignCustodianCollision(t *testing.T) {
	assert := assert.New(t)

	// Collision confirmed as the same custodian.
	script := &pipelinetest.Script{Values: []string{"NIOO"}, Choices: []int{0}}
	a := ioassign.New(script)
	id, err := a.AssignCustodianID(
		context.Background(), "Netherlands Institute of Ecology", tables(),
	)
	assert.Nil(err)
	assert.Equal("NIOO", id)

	// Collision rejected, different code supplied.
	script = &pipelinetest.Script{
		Values:  []string{"NIOO", "NIO2"},
		Choices: []int{1},
	}
	a = ioassign.New(script)
	id, err = a.AssignCustodianID(
		context.Background(), "Another Institute", tables(),
	)
	assert.Nil(err)
	assert.Equal("NIO2", id)
}

func TestMnemonic(t *testing.T) {
	assert := assert.New(t)

	id, err := ioassign.Mnemonic("Parus major")
	assert.Nil(err)
	assert.Equal("PARMAJ", id)

	id, err = ioassign.Mnemonic("Limosa limosa limosa")
	assert.Nil(err)
	assert.Equal("LLLIMO", id)

	id, err = ioassign.Mnemonic("Cyanistes caeruleus")
	assert.Nil(err)
	assert.Equal("CYACAE", id)

	_, err = ioassign.Mnemonic("Parus")
	assert.NotNil(err)
}

func TestAssignSpeciesID(t *testing.T) {
	assert := assert.New(t)
	used := map[string]struct{}{"PARMAJ": {}}

	// No collision: derived id comes back without prompting.
	script := &pipelinetest.Script{}
	a := ioassign.New(script)
	id, err := a.AssignSpeciesID(
		context.Background(), "Cyanistes caeruleus", used,
	)
	assert.Nil(err)
	assert.Equal("CYACAE", id)
	assert.Empty(script.Prompts)

	// Collision: operator supplies the override.
	script = &pipelinetest.Script{Values: []string{"PARMA2"}}
	a = ioassign.New(script)
	id, err = a.AssignSpeciesID(context.Background(), "Parus major", used)
	assert.Nil(err)
	assert.Equal("PARMA2", id)
	assert.Equal(1, len(script.Prompts))
}
