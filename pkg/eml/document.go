// Package eml models the subset of the Ecological Metadata Language
// (EML 2.2.0) exercised by SPI-Birds submissions, and serializes and
// validates documents built from it.
//
// The model is deliberately not a general-purpose EML toolkit. Optional
// sections are pointers and are omitted when nil, so "a section is omitted
// when empty" is a property of the type, not of a nil check scattered
// through the transformer. A Party is either a full definition carrying a
// fresh id or a one-hop reference to an id defined earlier in the same
// document.
package eml

import (
	"fmt"
	"strings"
)

// Namespace and schema location written into every document.
const (
	Namespace      = "https://eml.ecoinformatics.org/eml-2.2.0"
	XSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = Namespace + " https://eml.ecoinformatics.org/eml-2.2.0/eml.xsd"
)

// Document is the root of one EML document.
type Document struct {
	PackageID string
	System    string
	Dataset   Dataset
}

// Dataset is the single dataset element of a document.
type Dataset struct {
	Title            string
	Creator          []Party
	MetadataProvider *Party
	AssociatedParty  []Party
	PubDate          string
	Abstract         *Paragraphs
	KeywordSet       *KeywordSet
	Coverage         *Coverage
	Contact          []Party
	Methods          *Methods
	Project          *Project
	Literature       *Citations
}

// Party is a person or organization playing a role, or a reference to a
// party defined earlier in the document. Exactly one of the two shapes is
// populated: a full party carries ID and name fields, a reference carries
// only References.
type Party struct {
	ID           string
	References   string
	Individual   *IndividualName
	Organization string
	Address      *Address
	Email        string
	UserID       *UserID
	Role         string
}

// IsReference reports whether the party is a reference stub.
func (p *Party) IsReference() bool {
	return p.References != ""
}

// Reference creates a one-hop reference to an earlier party id.
func Reference(id string) Party {
	return Party{References: id}
}

// IndividualName is a person name split the way EML wants it.
type IndividualName struct {
	GivenName string
	SurName   string
}

// SplitName converts a free-text person name into an IndividualName,
// treating the last token as the surname.
func SplitName(name string) *IndividualName {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return nil
	}
	res := &IndividualName{SurName: fields[len(fields)-1]}
	if len(fields) > 1 {
		res.GivenName = strings.Join(fields[:len(fields)-1], " ")
	}
	return res
}

// Address holds a free-text postal address as delivery point lines.
type Address struct {
	DeliveryPoint []string
}

// UserID is an external registry identifier (ORCID).
type UserID struct {
	Directory string
	Value     string
}

// ORCIDDirectory is the directory attribute for ORCID user ids.
const ORCIDDirectory = "https://orcid.org"

// Paragraphs holds free-text content as para elements.
type Paragraphs struct {
	Para []string
}

// KeywordSet is a flat list of keywords.
type KeywordSet struct {
	Keyword []string
}

// Coverage combines the three coverage sections; each is optional
// independently.
type Coverage struct {
	Geographic *GeographicCoverage
	Temporal   *TemporalCoverage
	Taxonomic  *TaxonomicCoverage
}

// GeographicCoverage is a described bounding box. A centre point
// submission degenerates to north=south and east=west.
type GeographicCoverage struct {
	Description string
	West        float64
	East        float64
	North       float64
	South       float64
	// Altitudes is present only when both bounds were submitted; the
	// schema requires the pair or neither.
	Altitudes *BoundingAltitudes
}

// BoundingAltitudes is an altitude range in meters.
type BoundingAltitudes struct {
	Minimum float64
	Maximum float64
	Units   string
}

// TemporalCoverage is a range of calendar dates (years here).
type TemporalCoverage struct {
	Begin string
	End   string
}

// TaxonomicCoverage embeds one right-nested rank tree per resolved taxon.
type TaxonomicCoverage struct {
	Classification []*RankNode
}

// RankNode is one level of a right-nested classification: kingdom wraps
// phylum wraps class and so on down to the leaf, where the common name is
// attached. Child is nil only at the leaf.
type RankNode struct {
	RankName   string
	RankValue  string
	TaxonIDs   []TaxonID
	CommonName string
	Child      *RankNode
}

// TaxonID is one external identifier with its provider.
type TaxonID struct {
	Provider string
	Value    string
}

// Leaf returns the most specific node of a rank tree.
func (n *RankNode) Leaf() *RankNode {
	for n.Child != nil {
		n = n.Child
	}
	return n
}

// Depth returns the number of levels in a rank tree.
func (n *RankNode) Depth() int {
	var res int
	for ; n != nil; n = n.Child {
		res++
	}
	return res
}

// Methods is a list of free-text method steps.
type Methods struct {
	Steps []MethodStep
}

// MethodStep is one described step.
type MethodStep struct {
	Title       string
	Description Paragraphs
}

// Project describes the study as a project section.
type Project struct {
	Title     string
	Personnel []Party
	Abstract  *Paragraphs
	Funding   *Paragraphs
}

// Citations holds the resolved bibliography: the first submitted DOI is
// the reference publication, the rest are literature cited.
type Citations struct {
	ReferencePublication *Citation
	LiteratureCited      []Citation
}

// Citation is one resolved bibliographic record, kept as a BibTeX entry
// (EML 2.2 citations accept bibtex content).
type Citation struct {
	Bibtex string
}

// Filename returns the canonical output file name for a document:
// {studyUUID}_{pubDate}.xml.
func Filename(studyUUID, pubDate string) string {
	return fmt.Sprintf("%s_%s.xml", studyUUID, pubDate)
}
