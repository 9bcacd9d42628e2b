package eml

import (
	"encoding/xml"
)

// Wire representation of the document. The model structs stay free of xml
// tags so the transformer never depends on serialization details; the
// conversion in this file is the single place that knows the element
// names.

type xmlDocument struct {
	XMLName        xml.Name    `xml:"eml:eml"`
	XMLNSEml       string      `xml:"xmlns:eml,attr"`
	XMLNSXsi       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	PackageID      string      `xml:"packageId,attr"`
	System         string      `xml:"system,attr"`
	Dataset        *xmlDataset `xml:"dataset"`
}

// xmlEnvelope relaxes the root element and attribute names for parsing:
// the eml prefix resolves to a namespace URI during decoding, so the
// parse side matches by local name only.
type xmlEnvelope struct {
	XMLName   xml.Name    `xml:"eml"`
	PackageID string      `xml:"packageId,attr"`
	System    string      `xml:"system,attr"`
	Dataset   *xmlDataset `xml:"dataset"`
}

type xmlDataset struct {
	Title            string         `xml:"title"`
	Creator          []xmlParty     `xml:"creator"`
	MetadataProvider *xmlParty      `xml:"metadataProvider"`
	AssociatedParty  []xmlParty     `xml:"associatedParty"`
	PubDate          string         `xml:"pubDate,omitempty"`
	Abstract         *xmlParas      `xml:"abstract"`
	KeywordSet       *xmlKeywordSet `xml:"keywordSet"`
	Coverage         *xmlCoverage   `xml:"coverage"`
	Contact          []xmlParty     `xml:"contact"`
	Methods          *xmlMethods    `xml:"methods"`
	Project          *xmlProject    `xml:"project"`
	LiteratureCited  *xmlLitCited   `xml:"literatureCited"`
	RefPublication   *xmlCitation   `xml:"referencePublication"`
}

type xmlParty struct {
	ID           string      `xml:"id,attr,omitempty"`
	References   string      `xml:"references,omitempty"`
	Individual   *xmlIndName `xml:"individualName"`
	Organization string      `xml:"organizationName,omitempty"`
	Address      *xmlAddress `xml:"address"`
	Email        string      `xml:"electronicMailAddress,omitempty"`
	UserID       *xmlUserID  `xml:"userId"`
	Role         string      `xml:"role,omitempty"`
}

type xmlIndName struct {
	GivenName string `xml:"givenName,omitempty"`
	SurName   string `xml:"surName"`
}

type xmlAddress struct {
	DeliveryPoint []string `xml:"deliveryPoint"`
}

type xmlUserID struct {
	Directory string `xml:"directory,attr"`
	Value     string `xml:",chardata"`
}

type xmlParas struct {
	Para []string `xml:"para"`
}

type xmlKeywordSet struct {
	Keyword []string `xml:"keyword"`
}

type xmlCoverage struct {
	Geographic *xmlGeographic `xml:"geographicCoverage"`
	Temporal   *xmlTemporal   `xml:"temporalCoverage"`
	Taxonomic  *xmlTaxonomic  `xml:"taxonomicCoverage"`
}

type xmlGeographic struct {
	Description string    `xml:"geographicDescription"`
	Bounds      xmlBounds `xml:"boundingCoordinates"`
}

type xmlBounds struct {
	West      float64       `xml:"westBoundingCoordinate"`
	East      float64       `xml:"eastBoundingCoordinate"`
	North     float64       `xml:"northBoundingCoordinate"`
	South     float64       `xml:"southBoundingCoordinate"`
	Altitudes *xmlAltitudes `xml:"boundingAltitudes"`
}

type xmlAltitudes struct {
	Minimum float64 `xml:"altitudeMinimum"`
	Maximum float64 `xml:"altitudeMaximum"`
	Units   string  `xml:"altitudeUnits"`
}

type xmlTemporal struct {
	RangeOfDates xmlRangeOfDates `xml:"rangeOfDates"`
}

type xmlRangeOfDates struct {
	Begin xmlCalendarDate `xml:"beginDate"`
	End   xmlCalendarDate `xml:"endDate"`
}

type xmlCalendarDate struct {
	CalendarDate string `xml:"calendarDate"`
}

type xmlTaxonomic struct {
	Classification []*xmlRankNode `xml:"taxonomicClassification"`
}

type xmlRankNode struct {
	RankName   string         `xml:"taxonRankName"`
	RankValue  string         `xml:"taxonRankValue"`
	CommonName string         `xml:"commonName,omitempty"`
	TaxonIDs   []xmlTaxonID   `xml:"taxonId"`
	Child      []*xmlRankNode `xml:"taxonomicClassification"`
}

type xmlTaxonID struct {
	Provider string `xml:"provider,attr"`
	Value    string `xml:",chardata"`
}

type xmlMethods struct {
	Steps []xmlMethodStep `xml:"methodStep"`
}

type xmlMethodStep struct {
	Description xmlStepDescription `xml:"description"`
}

type xmlStepDescription struct {
	Section *xmlSection `xml:"section"`
	Para    []string    `xml:"para"`
}

type xmlSection struct {
	Title string   `xml:"title,omitempty"`
	Para  []string `xml:"para"`
}

type xmlProject struct {
	Title     string     `xml:"title"`
	Personnel []xmlParty `xml:"personnel"`
	Abstract  *xmlParas  `xml:"abstract"`
	Funding   *xmlParas  `xml:"funding"`
}

type xmlLitCited struct {
	Citation []xmlCitation `xml:"citation"`
}

type xmlCitation struct {
	Bibtex string `xml:"bibtex"`
}

// Serialize writes a document to the wire format. The output is meant to
// be validated immediately with Validate.
func Serialize(doc *Document) ([]byte, error) {
	wire := toWire(doc)
	data, err := xml.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, SerializeError(err)
	}
	res := append([]byte(xml.Header), data...)
	res = append(res, '\n')
	return res, nil
}

// Parse reads serialized bytes back into the document model. Used by
// Validate and by in-place amendments of already written documents.
func Parse(data []byte) (*Document, error) {
	var env xmlEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, SchemaError([]string{"document is not well-formed XML"}, err)
	}
	return fromWire(&env), nil
}

func toWire(doc *Document) *xmlDocument {
	res := &xmlDocument{
		XMLNSEml:       Namespace,
		XMLNSXsi:       XSINamespace,
		SchemaLocation: SchemaLocation,
		PackageID:      doc.PackageID,
		System:         doc.System,
	}
	ds := &doc.Dataset
	res.Dataset = &xmlDataset{
		Title:            ds.Title,
		Creator:          partiesToWire(ds.Creator),
		MetadataProvider: partyToWire(ds.MetadataProvider),
		AssociatedParty:  partiesToWire(ds.AssociatedParty),
		PubDate:          ds.PubDate,
		Abstract:         parasToWire(ds.Abstract),
		Contact:          partiesToWire(ds.Contact),
	}
	if ds.KeywordSet != nil {
		res.Dataset.KeywordSet = &xmlKeywordSet{Keyword: ds.KeywordSet.Keyword}
	}
	res.Dataset.Coverage = coverageToWire(ds.Coverage)
	res.Dataset.Methods = methodsToWire(ds.Methods)
	res.Dataset.Project = projectToWire(ds.Project)
	if lit := ds.Literature; lit != nil {
		if lit.ReferencePublication != nil {
			res.Dataset.RefPublication = &xmlCitation{
				Bibtex: lit.ReferencePublication.Bibtex,
			}
		}
		if len(lit.LiteratureCited) > 0 {
			cited := &xmlLitCited{}
			for _, c := range lit.LiteratureCited {
				cited.Citation = append(cited.Citation, xmlCitation{Bibtex: c.Bibtex})
			}
			res.Dataset.LiteratureCited = cited
		}
	}
	return res
}

func partiesToWire(pp []Party) []xmlParty {
	var res []xmlParty
	for i := range pp {
		res = append(res, *partyToWire(&pp[i]))
	}
	return res
}

func partyToWire(p *Party) *xmlParty {
	if p == nil {
		return nil
	}
	res := &xmlParty{
		ID:           p.ID,
		References:   p.References,
		Organization: p.Organization,
		Email:        p.Email,
		Role:         p.Role,
	}
	if p.Individual != nil {
		res.Individual = &xmlIndName{
			GivenName: p.Individual.GivenName,
			SurName:   p.Individual.SurName,
		}
	}
	if p.Address != nil {
		res.Address = &xmlAddress{DeliveryPoint: p.Address.DeliveryPoint}
	}
	if p.UserID != nil {
		res.UserID = &xmlUserID{
			Directory: p.UserID.Directory,
			Value:     p.UserID.Value,
		}
	}
	return res
}

func parasToWire(p *Paragraphs) *xmlParas {
	if p == nil {
		return nil
	}
	return &xmlParas{Para: p.Para}
}

func coverageToWire(c *Coverage) *xmlCoverage {
	if c == nil {
		return nil
	}
	res := &xmlCoverage{}
	if g := c.Geographic; g != nil {
		res.Geographic = &xmlGeographic{
			Description: g.Description,
			Bounds: xmlBounds{
				West:  g.West,
				East:  g.East,
				North: g.North,
				South: g.South,
			},
		}
		if g.Altitudes != nil {
			res.Geographic.Bounds.Altitudes = &xmlAltitudes{
				Minimum: g.Altitudes.Minimum,
				Maximum: g.Altitudes.Maximum,
				Units:   g.Altitudes.Units,
			}
		}
	}
	if t := c.Temporal; t != nil {
		res.Temporal = &xmlTemporal{
			RangeOfDates: xmlRangeOfDates{
				Begin: xmlCalendarDate{CalendarDate: t.Begin},
				End:   xmlCalendarDate{CalendarDate: t.End},
			},
		}
	}
	if tx := c.Taxonomic; tx != nil {
		res.Taxonomic = &xmlTaxonomic{}
		for _, node := range tx.Classification {
			res.Taxonomic.Classification = append(
				res.Taxonomic.Classification, rankNodeToWire(node),
			)
		}
	}
	return res
}

func rankNodeToWire(n *RankNode) *xmlRankNode {
	if n == nil {
		return nil
	}
	res := &xmlRankNode{
		RankName:   n.RankName,
		RankValue:  n.RankValue,
		CommonName: n.CommonName,
	}
	for _, id := range n.TaxonIDs {
		res.TaxonIDs = append(res.TaxonIDs, xmlTaxonID(id))
	}
	if n.Child != nil {
		res.Child = []*xmlRankNode{rankNodeToWire(n.Child)}
	}
	return res
}

func methodsToWire(m *Methods) *xmlMethods {
	if m == nil {
		return nil
	}
	res := &xmlMethods{}
	for _, step := range m.Steps {
		ws := xmlMethodStep{}
		if step.Title != "" {
			ws.Description.Section = &xmlSection{
				Title: step.Title,
				Para:  step.Description.Para,
			}
		} else {
			ws.Description.Para = step.Description.Para
		}
		res.Steps = append(res.Steps, ws)
	}
	return res
}

func projectToWire(p *Project) *xmlProject {
	if p == nil {
		return nil
	}
	return &xmlProject{
		Title:     p.Title,
		Personnel: partiesToWire(p.Personnel),
		Abstract:  parasToWire(p.Abstract),
		Funding:   parasToWire(p.Funding),
	}
}

func fromWire(env *xmlEnvelope) *Document {
	res := &Document{
		PackageID: env.PackageID,
		System:    env.System,
	}
	ds := env.Dataset
	if ds == nil {
		return res
	}
	res.Dataset = Dataset{
		Title:            ds.Title,
		Creator:          partiesFromWire(ds.Creator),
		MetadataProvider: partyFromWire(ds.MetadataProvider),
		AssociatedParty:  partiesFromWire(ds.AssociatedParty),
		PubDate:          ds.PubDate,
		Abstract:         parasFromWire(ds.Abstract),
		Contact:          partiesFromWire(ds.Contact),
	}
	if ds.KeywordSet != nil {
		res.Dataset.KeywordSet = &KeywordSet{Keyword: ds.KeywordSet.Keyword}
	}
	res.Dataset.Coverage = coverageFromWire(ds.Coverage)
	res.Dataset.Methods = methodsFromWire(ds.Methods)
	res.Dataset.Project = projectFromWire(ds.Project)
	if ds.RefPublication != nil || ds.LiteratureCited != nil {
		lit := &Citations{}
		if ds.RefPublication != nil {
			lit.ReferencePublication = &Citation{Bibtex: ds.RefPublication.Bibtex}
		}
		if ds.LiteratureCited != nil {
			for _, c := range ds.LiteratureCited.Citation {
				lit.LiteratureCited = append(lit.LiteratureCited, Citation{Bibtex: c.Bibtex})
			}
		}
		res.Dataset.Literature = lit
	}
	return res
}

func partiesFromWire(pp []xmlParty) []Party {
	var res []Party
	for i := range pp {
		res = append(res, *partyFromWire(&pp[i]))
	}
	return res
}

func partyFromWire(p *xmlParty) *Party {
	if p == nil {
		return nil
	}
	res := &Party{
		ID:           p.ID,
		References:   p.References,
		Organization: p.Organization,
		Email:        p.Email,
		Role:         p.Role,
	}
	if p.Individual != nil {
		res.Individual = &IndividualName{
			GivenName: p.Individual.GivenName,
			SurName:   p.Individual.SurName,
		}
	}
	if p.Address != nil {
		res.Address = &Address{DeliveryPoint: p.Address.DeliveryPoint}
	}
	if p.UserID != nil {
		res.UserID = &UserID{Directory: p.UserID.Directory, Value: p.UserID.Value}
	}
	return res
}

func parasFromWire(p *xmlParas) *Paragraphs {
	if p == nil {
		return nil
	}
	return &Paragraphs{Para: p.Para}
}

func coverageFromWire(c *xmlCoverage) *Coverage {
	if c == nil {
		return nil
	}
	res := &Coverage{}
	if g := c.Geographic; g != nil {
		res.Geographic = &GeographicCoverage{
			Description: g.Description,
			West:        g.Bounds.West,
			East:        g.Bounds.East,
			North:       g.Bounds.North,
			South:       g.Bounds.South,
		}
		if g.Bounds.Altitudes != nil {
			res.Geographic.Altitudes = &BoundingAltitudes{
				Minimum: g.Bounds.Altitudes.Minimum,
				Maximum: g.Bounds.Altitudes.Maximum,
				Units:   g.Bounds.Altitudes.Units,
			}
		}
	}
	if t := c.Temporal; t != nil {
		res.Temporal = &TemporalCoverage{
			Begin: t.RangeOfDates.Begin.CalendarDate,
			End:   t.RangeOfDates.End.CalendarDate,
		}
	}
	if tx := c.Taxonomic; tx != nil {
		res.Taxonomic = &TaxonomicCoverage{}
		for _, node := range tx.Classification {
			res.Taxonomic.Classification = append(
				res.Taxonomic.Classification, rankNodeFromWire(node),
			)
		}
	}
	return res
}

func rankNodeFromWire(n *xmlRankNode) *RankNode {
	if n == nil {
		return nil
	}
	res := &RankNode{
		RankName:   n.RankName,
		RankValue:  n.RankValue,
		CommonName: n.CommonName,
	}
	for _, id := range n.TaxonIDs {
		res.TaxonIDs = append(res.TaxonIDs, TaxonID(id))
	}
	if len(n.Child) > 0 {
		res.Child = rankNodeFromWire(n.Child[0])
	}
	return res
}

func methodsFromWire(m *xmlMethods) *Methods {
	if m == nil {
		return nil
	}
	res := &Methods{}
	for _, step := range m.Steps {
		ms := MethodStep{}
		if step.Description.Section != nil {
			ms.Title = step.Description.Section.Title
			ms.Description.Para = step.Description.Section.Para
		} else {
			ms.Description.Para = step.Description.Para
		}
		res.Steps = append(res.Steps, ms)
	}
	return res
}

func projectFromWire(p *xmlProject) *Project {
	if p == nil {
		return nil
	}
	return &Project{
		Title:     p.Title,
		Personnel: partiesFromWire(p.Personnel),
		Abstract:  parasFromWire(p.Abstract),
		Funding:   parasFromWire(p.Funding),
	}
}
