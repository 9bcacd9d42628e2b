// Package record defines the typed Submission Record.
//
// A submission arrives as one flat spreadsheet row of free-text and
// selected-option answers. FromRow is the single place where the loose
// representation is normalized: the "NA" sentinel becomes an absent field,
// multi-value answers are split, and numeric fields are parsed. After
// ingestion the record is immutable for the duration of one conversion.
package record

import (
	"strconv"
	"strings"
	"time"
)

// PartyType selects between the two creator shapes of the form.
type PartyType string

const (
	PersonParty       PartyType = "person"
	OrganizationParty PartyType = "organization"
)

// ContactChoice selects which earlier party the contact role repeats,
// if any.
type ContactChoice string

const (
	ContactIsCreator  ContactChoice = "creator"
	ContactIsProvider ContactChoice = "provider"
	ContactIsOther    ContactChoice = "other"
)

// CoordinateType selects between the two geographic answer shapes.
type CoordinateType string

const (
	Centroid    CoordinateType = "a centre point"
	BoundingBox CoordinateType = "a bounding box"
)

// Submission is one normalized form row. String fields hold "" when the
// answer was absent; numeric fields use pointers so absence and zero stay
// distinct.
type Submission struct {
	// Creator party.
	CreatorType    PartyType
	CreatorName    string
	CreatorEmail   string
	CreatorOrg     string
	CreatorAddress string
	CreatorORCID   string

	// Metadata provider party.
	ProviderIsSomeoneElse bool
	ProviderName          string
	ProviderEmail         string
	ProviderOrg           string
	ProviderAddress       string
	ProviderORCID         string

	// Contact party.
	ContactIs      ContactChoice
	ContactName    string
	ContactEmail   string
	ContactOrg     string
	ContactAddress string

	// Study site.
	SiteName       string
	Country        string
	CoordinateType CoordinateType
	Latitude       *float64
	Longitude      *float64
	North          *float64
	South          *float64
	East           *float64
	West           *float64
	AltitudeMin    *float64
	AltitudeMax    *float64
	HabitatCodes   []string
	HabitatOther   string
	SiteSizeHa     *float64
	NestBoxCount   *int

	// Temporal coverage.
	BeginYear *int
	EndYear   *int

	// Taxonomic coverage: free-text species names, pipe- or
	// newline-delimited in the form.
	SpeciesNames []string

	// Methods.
	TagTypes             []string
	TagOther             string
	IndividualData       []string
	IndividualOther      string
	BroodData            []string
	BroodOther           string
	GeneticData          []string
	GeneticOther         string
	EnvironmentalAbiotic []string
	EnvironmentalBiotic  []string
	EnvironmentalOther   string
	OtherActivities      string

	// Citations: raw DOI tokens, prefixes still attached.
	DOIs []string

	CustodianName string

	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Semantic field names used as keys of the normalized row. The spreadsheet
// reader maps form-builder column labels to these names before calling
// FromRow.
const (
	FieldCreatorType          = "creator_type"
	FieldCreatorName          = "creator_name"
	FieldCreatorEmail         = "creator_email"
	FieldCreatorOrg           = "creator_org"
	FieldCreatorAddress       = "creator_address"
	FieldCreatorORCID         = "creator_orcid"
	FieldProviderSomeoneElse  = "provider_someone_else"
	FieldProviderName         = "provider_name"
	FieldProviderEmail        = "provider_email"
	FieldProviderOrg          = "provider_org"
	FieldProviderAddress      = "provider_address"
	FieldProviderORCID        = "provider_orcid"
	FieldContactIs            = "contact_is"
	FieldContactName          = "contact_name"
	FieldContactEmail         = "contact_email"
	FieldContactOrg           = "contact_org"
	FieldContactAddress       = "contact_address"
	FieldSiteName             = "site_name"
	FieldCountry              = "country"
	FieldCoordinateType       = "geographic_coordinates"
	FieldLatitude             = "latitude"
	FieldLongitude            = "longitude"
	FieldNorth                = "north"
	FieldSouth                = "south"
	FieldEast                 = "east"
	FieldWest                 = "west"
	FieldAltitudeMin          = "altitude_min"
	FieldAltitudeMax          = "altitude_max"
	FieldHabitats             = "habitats"
	FieldHabitatOther         = "habitat_other"
	FieldSiteSize             = "site_size"
	FieldNestBoxCount         = "nest_box_count"
	FieldBeginYear            = "begin_year"
	FieldEndYear              = "end_year"
	FieldSpecies              = "species"
	FieldTagTypes             = "tag_types"
	FieldTagOther             = "tag_other"
	FieldIndividualData       = "individual_data"
	FieldIndividualOther      = "individual_other"
	FieldBroodData            = "brood_data"
	FieldBroodOther           = "brood_other"
	FieldGeneticData          = "genetic_data"
	FieldGeneticOther         = "genetic_other"
	FieldEnvironmentalAbiotic = "environmental_abiotic"
	FieldEnvironmentalBiotic  = "environmental_biotic"
	FieldEnvironmentalOther   = "environmental_other"
	FieldOtherActivities      = "other_activities"
	FieldDOIs                 = "dois"
	FieldCustodianName        = "custodian_name"
	FieldSubmittedAt          = "submitted_at"
	FieldUpdatedAt            = "updated_at"
)

// FromRow converts one normalized row (semantic name → raw answer) into a
// typed Submission. Malformed numeric or date answers are hard
// input-validation failures.
func FromRow(row map[string]string) (*Submission, error) {
	g := rowGetter{row: row}

	sub := &Submission{
		CreatorType:    PartyType(strings.ToLower(g.str(FieldCreatorType))),
		CreatorName:    g.str(FieldCreatorName),
		CreatorEmail:   g.str(FieldCreatorEmail),
		CreatorOrg:     g.str(FieldCreatorOrg),
		CreatorAddress: g.str(FieldCreatorAddress),
		CreatorORCID:   g.str(FieldCreatorORCID),

		ProviderIsSomeoneElse: g.yes(FieldProviderSomeoneElse),
		ProviderName:          g.str(FieldProviderName),
		ProviderEmail:         g.str(FieldProviderEmail),
		ProviderOrg:           g.str(FieldProviderOrg),
		ProviderAddress:       g.str(FieldProviderAddress),
		ProviderORCID:         g.str(FieldProviderORCID),

		ContactIs:      ContactChoice(strings.ToLower(g.str(FieldContactIs))),
		ContactName:    g.str(FieldContactName),
		ContactEmail:   g.str(FieldContactEmail),
		ContactOrg:     g.str(FieldContactOrg),
		ContactAddress: g.str(FieldContactAddress),

		SiteName:       g.str(FieldSiteName),
		Country:        g.str(FieldCountry),
		CoordinateType: CoordinateType(strings.ToLower(g.str(FieldCoordinateType))),
		HabitatCodes:   g.list(FieldHabitats),
		HabitatOther:   g.str(FieldHabitatOther),

		SpeciesNames: g.names(FieldSpecies),

		TagTypes:             g.list(FieldTagTypes),
		TagOther:             g.str(FieldTagOther),
		IndividualData:       g.list(FieldIndividualData),
		IndividualOther:      g.str(FieldIndividualOther),
		BroodData:            g.list(FieldBroodData),
		BroodOther:           g.str(FieldBroodOther),
		GeneticData:          g.list(FieldGeneticData),
		GeneticOther:         g.str(FieldGeneticOther),
		EnvironmentalAbiotic: g.list(FieldEnvironmentalAbiotic),
		EnvironmentalBiotic:  g.list(FieldEnvironmentalBiotic),
		EnvironmentalOther:   g.str(FieldEnvironmentalOther),
		OtherActivities:      g.str(FieldOtherActivities),

		DOIs: g.dois(FieldDOIs),

		CustodianName: g.str(FieldCustodianName),
	}

	sub.Latitude = g.float(FieldLatitude)
	sub.Longitude = g.float(FieldLongitude)
	sub.North = g.float(FieldNorth)
	sub.South = g.float(FieldSouth)
	sub.East = g.float(FieldEast)
	sub.West = g.float(FieldWest)
	sub.AltitudeMin = g.float(FieldAltitudeMin)
	sub.AltitudeMax = g.float(FieldAltitudeMax)
	sub.SiteSizeHa = g.float(FieldSiteSize)
	sub.NestBoxCount = g.integer(FieldNestBoxCount)
	sub.BeginYear = g.integer(FieldBeginYear)
	sub.EndYear = g.integer(FieldEndYear)
	sub.SubmittedAt = g.timestamp(FieldSubmittedAt)
	sub.UpdatedAt = g.timestamp(FieldUpdatedAt)

	if g.err != nil {
		return nil, g.err
	}
	return sub, nil
}

// rowGetter accumulates the first parse failure so FromRow reads linearly.
type rowGetter struct {
	row map[string]string
	err error
}

// normalize maps the form's explicit empty sentinels to an absent answer.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "NA", "N/A", "NULL":
		return ""
	}
	return s
}

func (g *rowGetter) str(field string) string {
	return normalize(g.row[field])
}

func (g *rowGetter) yes(field string) bool {
	s := strings.ToLower(normalize(g.row[field]))
	return s == "yes" || s == "true" || s == "someone else"
}

func (g *rowGetter) float(field string) *float64 {
	s := normalize(g.row[field])
	if s == "" {
		return nil
	}
	// Forms from some locales use a decimal comma.
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if g.err == nil {
			g.err = FieldError(field, g.row[field], err)
		}
		return nil
	}
	return &f
}

func (g *rowGetter) integer(field string) *int {
	s := normalize(g.row[field])
	if s == "" {
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		if g.err == nil {
			g.err = FieldError(field, g.row[field], err)
		}
		return nil
	}
	return &i
}

func (g *rowGetter) timestamp(field string) time.Time {
	s := normalize(g.row[field])
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05", "2006-01-02", "2/1/2006 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if g.err == nil {
		g.err = FieldError(field, s, nil)
	}
	return time.Time{}
}

// list splits a checkbox-style answer on semicolons.
func (g *rowGetter) list(field string) []string {
	return splitAnswer(normalize(g.row[field]), ";")
}

// names splits the species answer on pipes or newlines.
func (g *rowGetter) names(field string) []string {
	s := normalize(g.row[field])
	s = strings.ReplaceAll(s, "\n", "|")
	return splitAnswer(s, "|")
}

// dois splits the citation answer on semicolons or pipes; prefix
// stripping happens later, during citation resolution.
func (g *rowGetter) dois(field string) []string {
	s := normalize(g.row[field])
	s = strings.ReplaceAll(s, "|", ";")
	return splitAnswer(s, ";")
}

func splitAnswer(s, sep string) []string {
	if s == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(s, sep) {
		v = normalize(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}
