package eml

import (
	"fmt"
	"slices"
	"strings"
)

// rankOrder mirrors the recognized rank sequence; kept local so the eml
// package has no dependency on the resolver's types.
var rankOrder = []string{
	"kingdom", "phylum", "class", "order",
	"family", "genus", "species", "subspecies",
}

// Validate re-parses serialized bytes and checks the structural schema
// rules this pipeline relies on. It is called right after every
// serialization and again after every in-place amendment; a failure is
// fatal to the conversion.
func Validate(data []byte) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}

	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if doc.PackageID == "" {
		add("packageId attribute is missing")
	}
	if doc.System == "" {
		add("system attribute is missing")
	}

	ds := &doc.Dataset
	if strings.TrimSpace(ds.Title) == "" {
		add("dataset title is missing")
	}
	if len(ds.Creator) == 0 {
		add("dataset needs at least one creator")
	}
	if len(ds.Contact) == 0 {
		add("dataset needs a contact")
	}
	if ds.PubDate == "" {
		add("pubDate is missing")
	}

	validateParties(doc, add)

	if cov := ds.Coverage; cov != nil {
		validateCoverage(cov, add)
	}

	if m := ds.Methods; m != nil {
		if len(m.Steps) == 0 {
			add("methods section present but has no steps")
		}
		for i, step := range m.Steps {
			if len(step.Description.Para) == 0 {
				add("method step %d has an empty description", i+1)
			}
		}
	}

	if lit := ds.Literature; lit != nil {
		if lit.ReferencePublication != nil &&
			strings.TrimSpace(lit.ReferencePublication.Bibtex) == "" {
			add("reference publication has no citation content")
		}
		for i, c := range lit.LiteratureCited {
			if strings.TrimSpace(c.Bibtex) == "" {
				add("literature cited entry %d has no citation content", i+1)
			}
		}
	}

	if len(problems) > 0 {
		return SchemaError(problems, nil)
	}
	return nil
}

// validateParties enforces the reference invariants: every reference
// points at an id defined earlier in document order, and a reference
// never points at another reference.
func validateParties(doc *Document, add func(string, ...any)) {
	ds := &doc.Dataset

	// parties in document order
	type placed struct {
		party *Party
		where string
	}
	var all []placed
	for i := range ds.Creator {
		all = append(all, placed{&ds.Creator[i], "creator"})
	}
	if ds.MetadataProvider != nil {
		all = append(all, placed{ds.MetadataProvider, "metadataProvider"})
	}
	for i := range ds.AssociatedParty {
		all = append(all, placed{&ds.AssociatedParty[i], "associatedParty"})
	}
	for i := range ds.Contact {
		all = append(all, placed{&ds.Contact[i], "contact"})
	}
	if ds.Project != nil {
		for i := range ds.Project.Personnel {
			all = append(all, placed{&ds.Project.Personnel[i], "project personnel"})
		}
	}

	defined := make(map[string]struct{})
	for _, v := range all {
		p := v.party
		if p.IsReference() {
			if p.ID != "" || p.Individual != nil || p.Organization != "" {
				add("%s mixes a reference with party content", v.where)
			}
			if _, ok := defined[p.References]; !ok {
				add(
					"%s references id %q which is not defined earlier",
					v.where, p.References,
				)
			}
			continue
		}
		if p.Individual == nil && p.Organization == "" {
			add("%s has neither an individual nor an organization name", v.where)
		}
		if p.Individual != nil && p.Individual.SurName == "" {
			add("%s individual name has no surname", v.where)
		}
		if v.where == "associatedParty" && p.Role == "" {
			add("associatedParty needs a role")
		}
		if p.ID != "" {
			if _, ok := defined[p.ID]; ok {
				add("party id %q defined twice", p.ID)
			}
			defined[p.ID] = struct{}{}
		}
	}
}

func validateCoverage(cov *Coverage, add func(string, ...any)) {
	if g := cov.Geographic; g != nil {
		if g.Description == "" {
			add("geographic coverage has no description")
		}
		if g.North < g.South {
			add("north bounding coordinate is south of the south one")
		}
		if a := g.Altitudes; a != nil {
			// The schema requires the pair or neither; a present section
			// must carry both bounds and a unit.
			if a.Units == "" {
				add("bounding altitudes have no units")
			}
			if a.Maximum < a.Minimum {
				add("altitude maximum is below minimum")
			}
		}
	}
	if t := cov.Temporal; t != nil {
		if t.Begin == "" {
			add("temporal coverage has no begin date")
		}
		if t.End == "" {
			add("temporal coverage has no end date")
		}
	}
	if tx := cov.Taxonomic; tx != nil {
		if len(tx.Classification) == 0 {
			add("taxonomic coverage present but empty")
		}
		for i, node := range tx.Classification {
			validateRankChain(i, node, add)
		}
	}
}

// validateRankChain checks that a right-nested classification descends
// strictly through the recognized rank order and attaches the common name
// only at the leaf.
func validateRankChain(i int, node *RankNode, add func(string, ...any)) {
	prev := -1
	for n := node; n != nil; n = n.Child {
		idx := slices.Index(rankOrder, n.RankName)
		if idx < 0 {
			add("taxon %d: unrecognized rank %q", i+1, n.RankName)
			return
		}
		if idx <= prev {
			add(
				"taxon %d: rank %q out of order in the classification chain",
				i+1, n.RankName,
			)
			return
		}
		if n.RankValue == "" {
			add("taxon %d: rank %q has no value", i+1, n.RankName)
		}
		if n.CommonName != "" && n.Child != nil {
			add("taxon %d: common name attached above the leaf", i+1)
		}
		prev = idx
	}
}

// AddParty amends a document in place with an additional associated
// party, then re-serializes and re-validates. The document must remain
// schema-valid after every mutation.
func AddParty(data []byte, party Party) ([]byte, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.Dataset.AssociatedParty = append(doc.Dataset.AssociatedParty, party)

	res, err := Serialize(doc)
	if err != nil {
		return nil, err
	}
	if err = Validate(res); err != nil {
		return nil, err
	}
	return res, nil
}
