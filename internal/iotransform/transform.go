// Package iotransform implements the metadata transformer: one flat
// submission record plus resolved taxa and assigned identifiers in, one
// nested EML document out.
//
// The transformer is pure apart from citation resolution; all operator
// interaction happened earlier, in the resolver and the assigner.
package iotransform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SPI-Birds/metadata/internal/iofs"
	"github.com/SPI-Birds/metadata/pkg/config"
	"github.com/SPI-Birds/metadata/pkg/eml"
	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/SPI-Birds/metadata/pkg/record"
	"github.com/SPI-Birds/metadata/pkg/taxon"
)

// Citer resolves submitted DOI tokens into the document bibliography. A
// single unresolvable DOI fails the whole batch.
type Citer interface {
	ResolveAll(ctx context.Context, raw []string) (*eml.Citations, error)
}

type iotransform struct {
	citer    Citer
	habitats *iofs.Habitats
}

// New creates a transformer. The citer may be nil when submissions carry
// no DOIs.
func New(citer Citer) (pipeline.Transformer, error) {
	habitats, err := iofs.HabitatCatalogue()
	if err != nil {
		return nil, err
	}
	return &iotransform{citer: citer, habitats: habitats}, nil
}

func (t *iotransform) Transform(
	ctx context.Context,
	rec *record.Submission,
	taxa []*taxon.Classification,
	ids *pipeline.Identifiers,
) (*eml.Document, error) {
	creator, provider, contact, err := parties(rec)
	if err != nil {
		return nil, err
	}

	coverage, err := t.coverage(rec, taxa)
	if err != nil {
		return nil, err
	}

	var literature *eml.Citations
	if len(rec.DOIs) > 0 {
		if t.citer == nil {
			return nil, CitationsUnavailableError()
		}
		literature, err = t.citer.ResolveAll(ctx, rec.DOIs)
		if err != nil {
			return nil, err
		}
	}

	title := t.title(rec)

	doc := &eml.Document{
		PackageID: ids.StudyUUID,
		System:    config.EMLSystem,
		Dataset: eml.Dataset{
			Title:            title,
			Creator:          []eml.Party{creator},
			MetadataProvider: &provider,
			PubDate:          processedAt(rec).Format("2006-01-02"),
			Abstract:         t.abstract(rec, taxa, ids),
			KeywordSet:       t.keywords(rec),
			Coverage:         coverage,
			Contact:          []eml.Party{contact},
			Methods:          methods(rec),
			Project:          t.project(rec, title),
			Literature:       literature,
		},
	}
	if rec.CustodianName != "" {
		doc.Dataset.AssociatedParty = append(doc.Dataset.AssociatedParty,
			eml.Party{
				ID:           "custodian",
				Organization: rec.CustodianName,
				Role:         "custodian",
			})
	}
	return doc, nil
}

// processedAt is the reference time of one conversion: the most recent of
// the submission and update timestamps, or the wall clock when the sheet
// carried neither.
func processedAt(rec *record.Submission) time.Time {
	res := rec.SubmittedAt
	if rec.UpdatedAt.After(res) {
		res = rec.UpdatedAt
	}
	if res.IsZero() {
		res = time.Now()
	}
	return res
}

// endString renders the temporal end: the submitted end year, or the
// reference year marked ongoing.
func endString(rec *record.Submission) string {
	if rec.EndYear != nil {
		return strconv.Itoa(*rec.EndYear)
	}
	return fmt.Sprintf("%d (ongoing)", processedAt(rec).Year())
}

func (t *iotransform) title(rec *record.Submission) string {
	if rec.BeginYear == nil {
		return rec.SiteName
	}
	return fmt.Sprintf("%s %d-%s", rec.SiteName, *rec.BeginYear, endString(rec))
}

func (t *iotransform) abstract(
	rec *record.Submission,
	taxa []*taxon.Classification,
	ids *pipeline.Identifiers,
) *eml.Paragraphs {
	var names []string
	for _, c := range taxa {
		if c.CommonName != "" {
			names = append(names, fmt.Sprintf("%s (%s)", c.Accepted, c.CommonName))
		} else {
			names = append(names, c.Accepted)
		}
	}

	first := fmt.Sprintf(
		"Study %s monitors breeding birds at %s", ids.StudyID, rec.SiteName,
	)
	if rec.Country != "" {
		first += fmt.Sprintf(", %s", rec.Country)
	}
	if rec.BeginYear != nil {
		first += fmt.Sprintf(", from %d to %s", *rec.BeginYear, endString(rec))
	}
	first += "."
	if len(names) > 0 {
		first += " Monitored species: " + strings.Join(names, ", ") + "."
	}

	res := &eml.Paragraphs{Para: []string{first}}

	var details []string
	if rec.SiteSizeHa != nil {
		details = append(details,
			fmt.Sprintf("The study site covers %g ha.", *rec.SiteSizeHa))
	}
	if rec.NestBoxCount != nil {
		details = append(details,
			fmt.Sprintf("%d nest boxes are monitored.", *rec.NestBoxCount))
	}
	if len(details) > 0 {
		res.Para = append(res.Para, strings.Join(details, " "))
	}
	return res
}

func (t *iotransform) keywords(rec *record.Submission) *eml.KeywordSet {
	codes := t.habitatCodes(rec)
	if len(codes) == 0 {
		return nil
	}
	res := &eml.KeywordSet{}
	for _, code := range codes {
		kw := code
		if name, ok := t.habitats.Groups[code]; ok {
			kw = name
		}
		res.Keyword = append(res.Keyword, kw)
	}
	return res
}

func (t *iotransform) coverage(
	rec *record.Submission,
	taxa []*taxon.Classification,
) (*eml.Coverage, error) {
	res := &eml.Coverage{}

	geo, err := geographic(rec)
	if err != nil {
		return nil, err
	}
	res.Geographic = geo

	if rec.BeginYear != nil {
		res.Temporal = &eml.TemporalCoverage{
			Begin: strconv.Itoa(*rec.BeginYear),
			End:   endString(rec),
		}
	}

	if len(taxa) > 0 {
		tx := &eml.TaxonomicCoverage{}
		for _, c := range taxa {
			tx.Classification = append(tx.Classification, rankTree(c))
		}
		res.Taxonomic = tx
	}

	if res.Geographic == nil && res.Temporal == nil && res.Taxonomic == nil {
		return nil, nil
	}
	return res, nil
}

// geographic builds the bounding box. A centre point submission
// degenerates to north=south and east=west.
func geographic(rec *record.Submission) (*eml.GeographicCoverage, error) {
	desc := rec.SiteName
	if rec.Country != "" {
		desc += ", " + rec.Country
	}

	switch rec.CoordinateType {
	case record.Centroid:
		if rec.Latitude == nil || rec.Longitude == nil {
			return nil, CoverageError(
				"a centre point submission needs both latitude and longitude",
			)
		}
		return withAltitudes(rec, &eml.GeographicCoverage{
			Description: desc,
			North:       *rec.Latitude,
			South:       *rec.Latitude,
			East:        *rec.Longitude,
			West:        *rec.Longitude,
		}), nil
	case record.BoundingBox:
		if rec.North == nil || rec.South == nil ||
			rec.East == nil || rec.West == nil {
			return nil, CoverageError(
				"a bounding box submission needs all four coordinates",
			)
		}
		return withAltitudes(rec, &eml.GeographicCoverage{
			Description: desc,
			North:       *rec.North,
			South:       *rec.South,
			East:        *rec.East,
			West:        *rec.West,
		}), nil
	default:
		if rec.Latitude == nil && rec.North == nil {
			return nil, nil
		}
		return nil, CoverageError("coordinate shape is not specified")
	}
}

// withAltitudes attaches the altitude range only when both bounds were
// submitted; the schema requires the pair or neither.
func withAltitudes(
	rec *record.Submission, g *eml.GeographicCoverage,
) *eml.GeographicCoverage {
	if rec.AltitudeMin != nil && rec.AltitudeMax != nil {
		g.Altitudes = &eml.BoundingAltitudes{
			Minimum: *rec.AltitudeMin,
			Maximum: *rec.AltitudeMax,
			Units:   "meter",
		}
	}
	return g
}

// rankTree folds one classification into a right-nested chain: each
// recognized rank that any authority contributed becomes a node wrapping
// the next, terminating at the leaf where the common name is attached.
func rankTree(c *taxon.Classification) *eml.RankNode {
	var root, tail *eml.RankNode
	for _, rank := range taxon.Ranks {
		var node *eml.RankNode
		for _, row := range c.Rows {
			if row.Rank != rank {
				continue
			}
			if node == nil {
				node = &eml.RankNode{
					RankName:  string(rank),
					RankValue: row.Name,
				}
			}
			node.TaxonIDs = append(node.TaxonIDs, eml.TaxonID{
				Provider: row.Authority,
				Value:    row.ExternalID,
			})
		}
		if node == nil {
			continue
		}
		if root == nil {
			root = node
		} else {
			tail.Child = node
		}
		tail = node
	}
	if tail != nil {
		if c.Accepted != "" {
			tail.RankValue = c.Accepted
		}
		tail.CommonName = c.CommonName
	}
	return root
}

// methods renders the data-type groups as method steps. A group with no
// selected option and no free-text entry is omitted, not emitted empty.
func methods(rec *record.Submission) *eml.Methods {
	var steps []eml.MethodStep

	group := func(title string, items []string, other string) {
		if len(items) == 0 && other == "" {
			return
		}
		var para []string
		if len(items) > 0 {
			para = append(para, strings.Join(items, "; "))
		}
		if other != "" {
			para = append(para, "Other: "+other)
		}
		steps = append(steps, eml.MethodStep{
			Title:       title,
			Description: eml.Paragraphs{Para: para},
		})
	}

	group("Tagging", rec.TagTypes, rec.TagOther)
	group("Individual-level data", rec.IndividualData, rec.IndividualOther)
	group("Brood-level data", rec.BroodData, rec.BroodOther)
	group("Genetic data", rec.GeneticData, rec.GeneticOther)

	if len(rec.EnvironmentalAbiotic) > 0 || len(rec.EnvironmentalBiotic) > 0 ||
		rec.EnvironmentalOther != "" {
		var para []string
		if len(rec.EnvironmentalAbiotic) > 0 {
			para = append(para,
				"Abiotic: "+strings.Join(rec.EnvironmentalAbiotic, "; "))
		}
		if len(rec.EnvironmentalBiotic) > 0 {
			para = append(para,
				"Biotic: "+strings.Join(rec.EnvironmentalBiotic, "; "))
		}
		if rec.EnvironmentalOther != "" {
			para = append(para, "Other: "+rec.EnvironmentalOther)
		}
		steps = append(steps, eml.MethodStep{
			Title:       "Environmental data",
			Description: eml.Paragraphs{Para: para},
		})
	}

	if rec.OtherActivities != "" {
		steps = append(steps, eml.MethodStep{
			Title:       "Other activities",
			Description: eml.Paragraphs{Para: []string{rec.OtherActivities}},
		})
	}

	if len(steps) == 0 {
		return nil
	}
	return &eml.Methods{Steps: steps}
}

func (t *iotransform) project(
	rec *record.Submission, title string,
) *eml.Project {
	personnel := eml.Reference("creator")
	personnel.Role = "originator"
	return &eml.Project{
		Title:     title,
		Personnel: []eml.Party{personnel},
	}
}
