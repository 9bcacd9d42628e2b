package eml_test

import (
	"strings"
	"testing"

	"github.com/SPI-Birds/metadata/pkg/eml"
	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *eml.Document {
	alt := &eml.BoundingAltitudes{Minimum: 10, Maximum: 60, Units: "meter"}
	return &eml.Document{
		PackageID: "4f2b4a1e-6f0e-5e0a-9c37-1b2f5a2d9a11",
		System:    "SPI-Birds",
		Dataset: eml.Dataset{
			Title: "Hoge Veluwe 2010-2024 (ongoing)",
			Creator: []eml.Party{
				{
					ID:           "creator",
					Individual:   eml.SplitName("A. de Vries"),
					Organization: "NIOO-KNAW",
					Address: &eml.Address{
						DeliveryPoint: []string{"Droevendaalsesteeg 10, Wageningen"},
					},
					Email: "a.devries@example.org",
					UserID: &eml.UserID{
						Directory: eml.ORCIDDirectory,
						Value:     "0000-0002-1825-0097",
					},
				},
			},
			MetadataProvider: func() *eml.Party {
				p := eml.Reference("creator")
				return &p
			}(),
			PubDate:  "2024-03-02",
			Abstract: &eml.Paragraphs{Para: []string{"Long-term nest box study."}},
			Coverage: &eml.Coverage{
				Geographic: &eml.GeographicCoverage{
					Description: "Hoge Veluwe, Netherlands",
					West:        5.74, East: 5.74, North: 52.0, South: 52.0,
					Altitudes: alt,
				},
				Temporal: &eml.TemporalCoverage{Begin: "2010", End: "2024"},
				Taxonomic: &eml.TaxonomicCoverage{
					Classification: []*eml.RankNode{
						{
							RankName: "kingdom", RankValue: "Animalia",
							Child: &eml.RankNode{
								RankName: "genus", RankValue: "Parus",
								Child: &eml.RankNode{
									RankName:   "species",
									RankValue:  "Parus major",
									CommonName: "Great Tit",
									TaxonIDs: []eml.TaxonID{
										{Provider: "https://www.gbif.org", Value: "2487880"},
									},
								},
							},
						},
					},
				},
			},
			Contact: []eml.Party{eml.Reference("creator")},
			Methods: &eml.Methods{
				Steps: []eml.MethodStep{
					{
						Title:       "Tagging",
						Description: eml.Paragraphs{Para: []string{"metal ring; colour ring"}},
					},
				},
			},
			Literature: &eml.Citations{
				ReferencePublication: &eml.Citation{
					Bibtex: "@article{key, title={A study}, year={2020}}",
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := eml.Serialize(sampleDoc())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
	assert.Contains(t, string(data), "<eml:eml")
	assert.Contains(t, string(data), "<references>creator</references>")

	require.NoError(t, eml.Validate(data))

	doc, err := eml.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "SPI-Birds", doc.System)
	assert.Equal(t, "Hoge Veluwe 2010-2024 (ongoing)", doc.Dataset.Title)

	leaf := doc.Dataset.Coverage.Taxonomic.Classification[0].Leaf()
	assert.Equal(t, "Parus major", leaf.RankValue)
	assert.Equal(t, "Great Tit", leaf.CommonName)
	assert.Equal(t, 3, doc.Dataset.Coverage.Taxonomic.Classification[0].Depth())
}

func TestValidateCorrupted(t *testing.T) {
	data, err := eml.Serialize(sampleDoc())
	require.NoError(t, err)

	t.Run("missing creator", func(t *testing.T) {
		start := strings.Index(string(data), "<creator")
		end := strings.Index(string(data), "</creator>") + len("</creator>")
		require.True(t, start > 0 && end > start)
		corrupted := string(data[:start]) + string(data[end:])
		err := eml.Validate([]byte(corrupted))
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "error should be of type *gn.Error")
		assert.Equal(t, errcode.DocSchemaError, gnErr.Code)
	})

	t.Run("not xml", func(t *testing.T) {
		assert.Error(t, eml.Validate([]byte("{not: xml}")))
	})
}

func TestValidateReferenceInvariants(t *testing.T) {
	t.Run("reference to undefined id", func(t *testing.T) {
		doc := sampleDoc()
		doc.Dataset.Contact = []eml.Party{eml.Reference("nobody")}
		data, err := eml.Serialize(doc)
		require.NoError(t, err)
		assert.Error(t, eml.Validate(data))
	})

	t.Run("reference must resolve in one hop", func(t *testing.T) {
		doc := sampleDoc()
		// provider is itself a reference; pointing the contact at it
		// would need two hops
		doc.Dataset.MetadataProvider.ID = ""
		doc.Dataset.Contact = []eml.Party{eml.Reference("provider")}
		data, err := eml.Serialize(doc)
		require.NoError(t, err)
		assert.Error(t, eml.Validate(data))
	})
}

func TestValidateRankChain(t *testing.T) {
	doc := sampleDoc()
	chain := doc.Dataset.Coverage.Taxonomic.Classification[0]
	// swap kingdom below genus
	chain.RankName = "genus"
	chain.Child.RankName = "kingdom"
	data, err := eml.Serialize(doc)
	require.NoError(t, err)
	assert.Error(t, eml.Validate(data))
}

func TestAddParty(t *testing.T) {
	data, err := eml.Serialize(sampleDoc())
	require.NoError(t, err)

	t.Run("valid amendment", func(t *testing.T) {
		amended, err := eml.AddParty(data, eml.Party{
			ID:         "custodian",
			Individual: eml.SplitName("J. Visser"),
			Role:       "custodian",
		})
		require.NoError(t, err)
		require.NoError(t, eml.Validate(amended))
		assert.Contains(t, string(amended), "associatedParty")
	})

	t.Run("invalid amendment is rejected", func(t *testing.T) {
		_, err := eml.AddParty(data, eml.Party{ID: "x", Role: "custodian"})
		assert.Error(t, err, "party without any name must not validate")
	})
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		given string
		sur   string
	}{
		{"A. de Vries", "A. de", "Vries"},
		{"Visser", "", "Visser"},
	}
	for _, v := range tests {
		res := eml.SplitName(v.name)
		require.NotNil(t, res)
		assert.Equal(t, v.given, res.GivenName)
		assert.Equal(t, v.sur, res.SurName)
	}
	assert.Nil(t, eml.SplitName("  "))
}

func TestFilename(t *testing.T) {
	assert.Equal(t,
		"4f2b4a1e-6f0e-5e0a-9c37-1b2f5a2d9a11_2024-03-02.xml",
		eml.Filename("4f2b4a1e-6f0e-5e0a-9c37-1b2f5a2d9a11", "2024-03-02"),
	)
}
