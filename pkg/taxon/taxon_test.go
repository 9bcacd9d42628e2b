package taxon_test

import (
	"testing"

	"github.com/SPI-Birds/metadata/pkg/taxon"
	"github.com/gnames/gnparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedRank(t *testing.T) {
	p := gnparser.New(gnparser.NewConfig())

	tests := []struct {
		name    string
		rank    taxon.Rank
		wantErr bool
	}{
		{"Parus major", taxon.Species, false},
		{"Limosa limosa limosa", taxon.Subspecies, false},
		{"Parus", "", true},
		{"", "", true},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			rank, err := taxon.ExpectedRank(p, v.name)
			if v.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, v.rank, rank)
		})
	}
}

func TestRecognized(t *testing.T) {
	r, ok := taxon.Recognized("FAMILY")
	assert.True(t, ok)
	assert.Equal(t, taxon.Family, r)

	_, ok = taxon.Recognized("tribe")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	good := &taxon.Classification{
		Submitted: "Parus major",
		Accepted:  "Parus major",
		Rows: []taxon.Row{
			{Name: "Animalia", Rank: taxon.Kingdom, Authority: "GBIF"},
			{Name: "Chordata", Rank: taxon.Phylum, Authority: "GBIF"},
			{Name: "Parus", Rank: taxon.Genus, Authority: "GBIF"},
			{
				Name: "Parus major", Rank: taxon.Species,
				Authority: "GBIF", Status: taxon.Accepted,
			},
			// A second authority restarts the sequence.
			{Name: "Animalia", Rank: taxon.Kingdom, Authority: "ITIS"},
			{
				Name: "Parus major", Rank: taxon.Species,
				Authority: "ITIS", Status: taxon.Accepted,
			},
		},
	}
	assert.NoError(t, good.Validate())

	dup := &taxon.Classification{
		Rows: []taxon.Row{
			{Name: "Parus", Rank: taxon.Genus, Authority: "GBIF"},
			{Name: "Parus", Rank: taxon.Genus, Authority: "GBIF"},
		},
	}
	assert.Error(t, dup.Validate(), "duplicate rank within one authority")

	misordered := &taxon.Classification{
		Rows: []taxon.Row{
			{Name: "Parus major", Rank: taxon.Species, Authority: "GBIF"},
			{Name: "Parus", Rank: taxon.Genus, Authority: "GBIF"},
		},
	}
	assert.Error(t, misordered.Validate())
}

func TestExternalID(t *testing.T) {
	cl := &taxon.Classification{
		Rows: []taxon.Row{
			{Name: "Parus", Rank: taxon.Genus, Authority: "GBIF", ExternalID: "2487875"},
			{
				Name: "Parus major", Rank: taxon.Species, Authority: "GBIF",
				ExternalID: "2487880", Status: taxon.Accepted,
			},
		},
	}
	assert.Equal(t, "2487880", cl.ExternalID("GBIF"))
	assert.Empty(t, cl.ExternalID("ITIS"))
}

func TestIsSynonym(t *testing.T) {
	cl := &taxon.Classification{Submitted: "Parus ater", Accepted: "Periparus ater"}
	assert.True(t, cl.IsSynonym())
	cl = &taxon.Classification{Submitted: "Parus major", Accepted: "Parus major"}
	assert.False(t, cl.IsSynonym())
}
