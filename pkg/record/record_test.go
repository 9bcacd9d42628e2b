package record_test

import (
	"testing"

	"github.com/SPI-Birds/metadata/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRow(t *testing.T) {
	row := map[string]string{
		record.FieldCreatorType:         "Person",
		record.FieldCreatorName:         "A. de Vries",
		record.FieldCreatorEmail:        "a.devries@example.org",
		record.FieldCreatorOrg:          "NIOO-KNAW",
		record.FieldCreatorAddress:      "Droevendaalsesteeg 10, Wageningen",
		record.FieldProviderSomeoneElse: "No",
		record.FieldContactIs:           "Creator",
		record.FieldSiteName:            "Hoge Veluwe",
		record.FieldCountry:             "Netherlands",
		record.FieldCoordinateType:      "A centre point",
		record.FieldLatitude:            "52.0",
		record.FieldLongitude:           "5,74",
		record.FieldAltitudeMin:         "NA",
		record.FieldAltitudeMax:         "60",
		record.FieldBeginYear:           "2010",
		record.FieldEndYear:             "NA",
		record.FieldSpecies:             "Parus major | Ficedula hypoleuca\nLimosa limosa limosa",
		record.FieldTagTypes:            "metal ring; colour ring",
		record.FieldDOIs:                "doi:10.1038/s41559-1 | https://doi.org/10.1111/j.2",
		record.FieldSubmittedAt:         "2024-03-02 10:15:00",
	}

	sub, err := record.FromRow(row)
	require.NoError(t, err)

	assert.Equal(t, record.PersonParty, sub.CreatorType)
	assert.False(t, sub.ProviderIsSomeoneElse)
	assert.Equal(t, record.ContactIsCreator, sub.ContactIs)
	assert.Equal(t, record.Centroid, sub.CoordinateType)

	require.NotNil(t, sub.Latitude)
	assert.InDelta(t, 52.0, *sub.Latitude, 1e-9)
	require.NotNil(t, sub.Longitude)
	assert.InDelta(t, 5.74, *sub.Longitude, 1e-9, "decimal comma normalized")

	assert.Nil(t, sub.AltitudeMin, "NA sentinel becomes absent")
	require.NotNil(t, sub.AltitudeMax)

	require.NotNil(t, sub.BeginYear)
	assert.Equal(t, 2010, *sub.BeginYear)
	assert.Nil(t, sub.EndYear)

	assert.Equal(t,
		[]string{"Parus major", "Ficedula hypoleuca", "Limosa limosa limosa"},
		sub.SpeciesNames,
	)
	assert.Equal(t, []string{"metal ring", "colour ring"}, sub.TagTypes)
	assert.Equal(t,
		[]string{"doi:10.1038/s41559-1", "https://doi.org/10.1111/j.2"},
		sub.DOIs,
	)
	assert.Equal(t, 2024, sub.SubmittedAt.Year())
}

func TestFromRowErrors(t *testing.T) {
	tests := []struct {
		msg   string
		field string
		value string
	}{
		{"bad latitude", record.FieldLatitude, "fifty-two"},
		{"bad year", record.FieldBeginYear, "201o"},
		{"bad nest box count", record.FieldNestBoxCount, "many"},
		{"bad timestamp", record.FieldSubmittedAt, "yesterday"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			_, err := record.FromRow(map[string]string{v.field: v.value})
			assert.Error(t, err)
		})
	}
}

func TestFromRowEmpty(t *testing.T) {
	sub, err := record.FromRow(map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, sub.SpeciesNames)
	assert.Nil(t, sub.Latitude)
	assert.True(t, sub.SubmittedAt.IsZero())
}
