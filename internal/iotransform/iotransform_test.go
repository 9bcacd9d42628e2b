package iotransform_test

import (
	"context"
	"testing"
	"time"

	"github.com/SPI-Birds/metadata/internal/iotransform"
	"github.com/SPI-Birds/metadata/pkg/eml"
	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/SPI-Birds/metadata/pkg/record"
	"github.com/SPI-Birds/metadata/pkg/taxon"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
)

type fixedCiter struct {
	cits *eml.Citations
	err  error
	raw  []string
}

func (f *fixedCiter) ResolveAll(
	_ context.Context, raw []string,
) (*eml.Citations, error) {
	f.raw = raw
	return f.cits, f.err
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func submission() *record.Submission {
	return &record.Submission{
		CreatorType:    record.PersonParty,
		CreatorName:    "Marcel E. Visser",
		CreatorEmail:   "m.visser@nioo.knaw.nl",
		CreatorOrg:     "Netherlands Institute of Ecology",
		CreatorAddress: "Droevendaalsesteeg 10, Wageningen",
		CreatorORCID:   "0000-0002-1456-1939",

		ContactIs: record.ContactIsCreator,

		SiteName:       "Hoge Veluwe",
		Country:        "Netherlands",
		CoordinateType: record.Centroid,
		Latitude:       fptr(52.0),
		Longitude:      fptr(5.74),
		AltitudeMin:    fptr(25),
		AltitudeMax:    fptr(60),
		HabitatCodes:   []string{"G"},
		HabitatOther:   "G1.21",
		SiteSizeHa:     fptr(171),
		NestBoxCount:   iptr(400),

		BeginYear: iptr(2010),

		SpeciesNames: []string{"Parus major"},

		TagTypes:       []string{"metal rings", "colour rings"},
		IndividualData: []string{"body mass", "tarsus length"},
		GeneticData:    nil,
		EnvironmentalAbiotic: []string{
			"temperature",
		},
		EnvironmentalBiotic: []string{
			"caterpillar abundance",
		},

		DOIs: []string{"doi:10.1/first"},

		CustodianName: "NIOO-KNAW",

		SubmittedAt: time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC),
	}
}

func classification() *taxon.Classification {
	return &taxon.Classification{
		Submitted:  "Parus major",
		Accepted:   "Parus major",
		Authorship: "Linnaeus, 1758",
		CommonName: "Great Tit",
		Rows: []taxon.Row{
			{Name: "Animalia", Rank: taxon.Kingdom, ExternalID: "1", Authority: "GBIF"},
			{Name: "Chordata", Rank: taxon.Phylum, ExternalID: "44", Authority: "GBIF"},
			{Name: "Aves", Rank: taxon.Class, ExternalID: "212", Authority: "GBIF"},
			{Name: "Passeriformes", Rank: taxon.Order, ExternalID: "729", Authority: "GBIF"},
			{Name: "Paridae", Rank: taxon.Family, ExternalID: "9343", Authority: "GBIF"},
			{Name: "Parus", Rank: taxon.Genus, ExternalID: "2487874", Authority: "GBIF"},
			{Name: "Parus major", Rank: taxon.Species, ExternalID: "2487878",
				Authority: "GBIF", Status: taxon.Accepted},
			{Name: "Parus major", Rank: taxon.Species, ExternalID: "14640",
				Authority: "EURING", Status: taxon.Accepted},
		},
	}
}

func ids() *pipeline.Identifiers {
	return &pipeline.Identifiers{
		SiteID:      "HOG",
		StudyID:     "HOG-1",
		StudyUUID:   "0e1f9f1a-33aa-5a52-a9b4-29c179bbf245",
		CustodianID: "NIOO",
		NewSite:     true,
		NewStudy:    true,
		SpeciesIDs:  map[string]string{"Parus major": "PARMAJ"},
	}
}

func TestTransform(t *testing.T) {
	assert := assert.New(t)

	citer := &fixedCiter{cits: &eml.Citations{
		ReferencePublication: &eml.Citation{Bibtex: "@article{first}"},
	}}
	tr, err := iotransform.New(citer)
	assert.Nil(err)

	doc, err := tr.Transform(
		context.Background(),
		submission(),
		[]*taxon.Classification{classification()},
		ids(),
	)
	assert.Nil(err)

	assert.Equal("0e1f9f1a-33aa-5a52-a9b4-29c179bbf245", doc.PackageID)
	assert.Equal("Hoge Veluwe 2010-2024 (ongoing)", doc.Dataset.Title)
	assert.Equal("2024-06-02", doc.Dataset.PubDate)

	// Person creator with a fresh id; provider and contact collapse to
	// one-hop references.
	creator := doc.Dataset.Creator[0]
	assert.Equal("creator", creator.ID)
	assert.Equal("Visser", creator.Individual.SurName)
	assert.Equal("Marcel E.", creator.Individual.GivenName)
	assert.Equal(eml.ORCIDDirectory, creator.UserID.Directory)
	assert.True(doc.Dataset.MetadataProvider.IsReference())
	assert.Equal("creator", doc.Dataset.MetadataProvider.References)
	assert.Equal("creator", doc.Dataset.Contact[0].References)

	// Centre point degenerates the bounding box.
	geo := doc.Dataset.Coverage.Geographic
	assert.Equal(52.0, geo.North)
	assert.Equal(52.0, geo.South)
	assert.Equal(5.74, geo.East)
	assert.Equal(5.74, geo.West)
	assert.Equal(25.0, geo.Altitudes.Minimum)
	assert.Equal(60.0, geo.Altitudes.Maximum)

	tmp := doc.Dataset.Coverage.Temporal
	assert.Equal("2010", tmp.Begin)
	assert.Equal("2024 (ongoing)", tmp.End)

	// Right-nested rank chain with the common name at the leaf and both
	// authority ids merged on the species node.
	tree := doc.Dataset.Coverage.Taxonomic.Classification[0]
	assert.Equal(7, tree.Depth())
	assert.Equal("kingdom", tree.RankName)
	leaf := tree.Leaf()
	assert.Equal("species", leaf.RankName)
	assert.Equal("Parus major", leaf.RankValue)
	assert.Equal("Great Tit", leaf.CommonName)
	assert.Equal(2, len(leaf.TaxonIDs))
	assert.Equal("", tree.CommonName)

	// Empty groups (brood, genetic) are omitted; environmental splits in
	// sub-lists.
	m := doc.Dataset.Methods
	assert.Equal(3, len(m.Steps))
	assert.Equal("Tagging", m.Steps[0].Title)
	assert.Equal("Individual-level data", m.Steps[1].Title)
	assert.Equal("Environmental data", m.Steps[2].Title)
	assert.Equal(
		[]string{"Abiotic: temperature", "Biotic: caterpillar abundance"},
		m.Steps[2].Description.Para,
	)

	// Habitat expansion by truncation.
	assert.Equal(
		[]string{
			"Woodland, forest and other wooded land",
			"G1.21", "G1.2", "G1",
		},
		doc.Dataset.KeywordSet.Keyword,
	)

	assert.Equal("@article{first}", doc.Dataset.Literature.ReferencePublication.Bibtex)
	assert.Equal([]string{"doi:10.1/first"}, citer.raw)

	assert.Equal(1, len(doc.Dataset.AssociatedParty))
	assert.Equal("custodian", doc.Dataset.AssociatedParty[0].Role)

	// The produced document survives serialization and validation.
	data, err := eml.Serialize(doc)
	assert.Nil(err)
	assert.Nil(eml.Validate(data))
}

func TestTransformOrganizationCreator(t *testing.T) {
	assert := assert.New(t)
	tr, err := iotransform.New(nil)
	assert.Nil(err)

	// An organization creator can never stand in for the provider; with
	// no provider person given this fails loudly instead of emitting a
	// dangling reference.
	rec := submission()
	rec.CreatorType = record.OrganizationParty
	rec.DOIs = nil
	_, err = tr.Transform(
		context.Background(), rec, nil, ids(),
	)
	assert.NotNil(err)
	gnErr, ok := err.(*gn.Error)
	assert.True(ok)
	assert.Equal(errcode.TransformPartyError, gnErr.Code)

	// With a named provider person the provider materializes fully.
	rec.ProviderName = "Antica Culina"
	rec.ProviderEmail = "a.culina@example.org"
	doc, err := tr.Transform(context.Background(), rec, nil, ids())
	assert.Nil(err)
	provider := doc.Dataset.MetadataProvider
	assert.False(provider.IsReference())
	assert.Equal("provider", provider.ID)
	assert.Equal("Culina", provider.Individual.SurName)

	data, err := eml.Serialize(doc)
	assert.Nil(err)
	assert.Nil(eml.Validate(data))
}

func TestTransformContactIsProvider(t *testing.T) {
	assert := assert.New(t)
	tr, err := iotransform.New(nil)
	assert.Nil(err)

	// Distinct provider: the contact references it directly.
	rec := submission()
	rec.DOIs = nil
	rec.ProviderIsSomeoneElse = true
	rec.ProviderName = "Antica Culina"
	rec.ContactIs = record.ContactIsProvider
	doc, err := tr.Transform(context.Background(), rec, nil, ids())
	assert.Nil(err)
	assert.Equal("provider", doc.Dataset.Contact[0].References)

	// Provider same as creator: the contact collapses to the creator, a
	// reference never targets another reference.
	rec = submission()
	rec.DOIs = nil
	rec.ContactIs = record.ContactIsProvider
	doc, err = tr.Transform(context.Background(), rec, nil, ids())
	assert.Nil(err)
	assert.Equal("creator", doc.Dataset.Contact[0].References)
}

func TestTransformBoundingBox(t *testing.T) {
	assert := assert.New(t)
	tr, err := iotransform.New(nil)
	assert.Nil(err)

	rec := submission()
	rec.DOIs = nil
	rec.CoordinateType = record.BoundingBox
	rec.North = fptr(52.1)
	rec.South = fptr(51.9)
	rec.East = fptr(5.9)
	rec.West = fptr(5.6)
	rec.AltitudeMax = nil

	doc, err := tr.Transform(context.Background(), rec, nil, ids())
	assert.Nil(err)
	geo := doc.Dataset.Coverage.Geographic
	assert.Equal(52.1, geo.North)
	assert.Equal(51.9, geo.South)
	// One altitude bound alone is dropped: the schema wants the pair or
	// neither.
	assert.Nil(geo.Altitudes)
}

func TestTransformMissingCoordinates(t *testing.T) {
	assert := assert.New(t)
	tr, err := iotransform.New(nil)
	assert.Nil(err)

	rec := submission()
	rec.DOIs = nil
	rec.Longitude = nil
	_, err = tr.Transform(context.Background(), rec, nil, ids())
	assert.NotNil(err)
	gnErr, ok := err.(*gn.Error)
	assert.True(ok)
	assert.Equal(errcode.TransformCoverageError, gnErr.Code)
}

func TestTransformEmptyMethods(t *testing.T) {
	assert := assert.New(t)
	tr, err := iotransform.New(nil)
	assert.Nil(err)

	rec := submission()
	rec.DOIs = nil
	rec.TagTypes = nil
	rec.IndividualData = nil
	rec.EnvironmentalAbiotic = nil
	rec.EnvironmentalBiotic = nil

	doc, err := tr.Transform(context.Background(), rec, nil, ids())
	assert.Nil(err)
	assert.Nil(doc.Dataset.Methods)
}

func TestTransformHabitatExceptionRoot(t *testing.T) {
	assert := assert.New(t)
	tr, err := iotransform.New(nil)
	assert.Nil(err)

	// Children of the exception root imply only the root itself, no
	// intermediate prefixes.
	rec := submission()
	rec.DOIs = nil
	rec.HabitatCodes = nil
	rec.HabitatOther = "X2.5"

	doc, err := tr.Transform(context.Background(), rec, nil, ids())
	assert.Nil(err)
	assert.Equal(
		[]string{"X2.5", "Habitat complexes"},
		doc.Dataset.KeywordSet.Keyword,
	)
}

func TestTransformSubmittedEndYear(t *testing.T) {
	assert := assert.New(t)
	tr, err := iotransform.New(nil)
	assert.Nil(err)

	rec := submission()
	rec.DOIs = nil
	rec.EndYear = iptr(2015)
	doc, err := tr.Transform(context.Background(), rec, nil, ids())
	assert.Nil(err)
	assert.Equal("Hoge Veluwe 2010-2015", doc.Dataset.Title)
	assert.Equal("2015", doc.Dataset.Coverage.Temporal.End)
}
