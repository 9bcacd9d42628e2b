// Package ioresolve implements the taxon resolver: one submitted
// scientific name in, one unified classification with per-authority
// provenance out.
//
// The primary nomenclature backbone (GBIF) decides whether a name exists
// at all. Every other authority only contributes; its absence degrades
// the classification instead of failing the resolution. Synonym and
// vernacular ambiguities suspend the pipeline and ask the operator.
package ioresolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SPI-Birds/metadata/internal/ioauthority"
	"github.com/SPI-Birds/metadata/pkg/config"
	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/SPI-Birds/metadata/pkg/taxon"
	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnparser"
)

type ioresolve struct {
	parser   gnparser.GNparser
	gbif     *ioauthority.GBIF
	eol      *ioauthority.EOL
	col      *ioauthority.COL
	itis     *ioauthority.ITIS
	euring   *ioauthority.Euring
	wikidata *ioauthority.Wikidata
	dis      pipeline.Disambiguator
	progress bool
}

// New creates a resolver wired to the configured authority hosts.
func New(
	cfg *config.Config,
	cache *ioauthority.Cache,
	dis pipeline.Disambiguator,
) (pipeline.Resolver, error) {
	euring, err := ioauthority.NewEuring()
	if err != nil {
		return nil, err
	}
	return &ioresolve{
		parser:   gnparser.New(gnparser.NewConfig()),
		gbif:     ioauthority.NewGBIF(cfg.Authority.GBIFHost, cache),
		eol:      ioauthority.NewEOL(cfg.Authority.EOLHost, cache),
		col:      ioauthority.NewCOL(cfg.Authority.COLHost, cache),
		itis:     ioauthority.NewITIS(cfg.Authority.ITISHost, cache),
		euring:   euring,
		wikidata: ioauthority.NewWikidata(cfg.Authority.WikidataHost, cache),
		dis:      dis,
		progress: true,
	}, nil
}

func (r *ioresolve) Resolve(
	ctx context.Context,
	name string,
) (*taxon.Classification, error) {
	name = strings.TrimSpace(name)
	rank, err := taxon.ExpectedRank(r.parser, name)
	if err != nil {
		return nil, err
	}

	match, synonym, err := r.primaryMatch(ctx, name)
	if err != nil {
		return nil, err
	}

	accepted := name
	if synonym != nil {
		accepted = r.canonical(synonym.Accepted)
		if accepted == "" {
			accepted = name
		}
	}

	c := &taxon.Classification{
		Submitted:  name,
		Accepted:   accepted,
		Authorship: match.Authorship,
	}
	c.Rows = append(c.Rows, r.gbifRows(match, synonym, rank, name)...)

	colResult := r.addContributions(ctx, c, rank, accepted, name)

	if err = c.Validate(); err != nil {
		return nil, err
	}

	common, err := r.commonName(ctx, accepted, colResult)
	if err != nil {
		return nil, err
	}
	c.CommonName = common

	return c, nil
}

func (r *ioresolve) ResolveAll(
	ctx context.Context,
	names []string,
) ([]*taxon.Classification, error) {
	res := make([]*taxon.Classification, 0, len(names))

	var bar *pb.ProgressBar
	if r.progress {
		bar = pb.Full.Start(len(names))
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	for _, name := range names {
		c, err := r.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
		if bar != nil {
			bar.Increment()
		}
	}
	return res, nil
}

// primaryMatch queries the backbone for the name as given. The returned
// match is the one the hierarchy is built from; synonym is non-nil when
// the submitted name turned out to be a deprecated alias, in which case
// match already points at the accepted usage.
func (r *ioresolve) primaryMatch(
	ctx context.Context,
	name string,
) (match, synonym *ioauthority.GBIFMatch, err error) {
	matches, err := r.gbif.Match(ctx, name)
	if err != nil || len(matches) == 0 {
		return nil, nil, NotFoundError(name)
	}

	chosen := &matches[0]
	for i := range matches {
		if !matches[i].IsSynonym() {
			chosen = &matches[i]
			break
		}
	}

	if !chosen.IsSynonym() {
		return chosen, nil, nil
	}

	if len(matches) > 1 {
		idx, err := r.chooseMatch(ctx, name, matches)
		if err != nil {
			return nil, nil, err
		}
		chosen = &matches[idx]
	}

	acceptedName := r.canonical(chosen.Accepted)
	if acceptedName == "" {
		// No accepted usage to follow; keep the synonym's own hierarchy.
		return chosen, chosen, nil
	}

	reMatches, err := r.gbif.Match(ctx, acceptedName)
	if err == nil {
		for i := range reMatches {
			if !reMatches[i].IsSynonym() {
				return &reMatches[i], chosen, nil
			}
		}
	}
	slog.Warn(
		"Accepted name of synonym did not re-resolve",
		"submitted", name, "accepted", acceptedName,
	)
	return chosen, chosen, nil
}

func (r *ioresolve) chooseMatch(
	ctx context.Context,
	name string,
	matches []ioauthority.GBIFMatch,
) (int, error) {
	options := make([]string, len(matches))
	for i, m := range matches {
		label := fmt.Sprintf(
			"%s %s [GBIF %d, %s]",
			m.CanonicalName, m.Authorship, m.Key, m.TaxonomicStatus,
		)
		if m.Accepted != "" {
			label += " -> " + m.Accepted
		}
		options[i] = label
	}
	prompt := fmt.Sprintf(
		"Name %q matches several backbone records. Pick the intended one",
		name,
	)
	return r.dis.ChooseOne(ctx, prompt, options)
}

// gbifRows builds the backbone contribution: the upper ranks of the
// accepted usage, then a single terminal row. When the submission used a
// synonym the terminal row keeps the submitted name and the synonym's
// own identifier, so the provenance of the original name survives.
func (r *ioresolve) gbifRows(
	match, synonym *ioauthority.GBIFMatch,
	rank taxon.Rank,
	submitted string,
) []taxon.Row {
	type upper struct {
		name string
		rank taxon.Rank
		key  int
	}
	uppers := []upper{
		{match.Kingdom, taxon.Kingdom, match.KingdomKey},
		{match.Phylum, taxon.Phylum, match.PhylumKey},
		{match.Class, taxon.Class, match.ClassKey},
		{match.Order, taxon.Order, match.OrderKey},
		{match.Family, taxon.Family, match.FamilyKey},
		{match.Genus, taxon.Genus, match.GenusKey},
	}
	if rank == taxon.Subspecies && match.Species != "" {
		uppers = append(uppers, upper{
			match.Species, taxon.Species, match.SpeciesKey,
		})
	}

	var rows []taxon.Row
	for _, u := range uppers {
		if u.name == "" {
			continue
		}
		rows = append(rows, taxon.Row{
			Name:         u.name,
			Rank:         u.rank,
			ExternalID:   fmt.Sprintf("%d", u.key),
			Authority:    ioauthority.GBIFLabel,
			AuthorityURL: r.gbif.SpeciesURL(u.key),
		})
	}

	leaf := taxon.Row{
		Name:         match.CanonicalName,
		Rank:         rank,
		ExternalID:   fmt.Sprintf("%d", match.Key),
		Authority:    ioauthority.GBIFLabel,
		AuthorityURL: r.gbif.SpeciesURL(match.Key),
		Status:       taxon.Accepted,
	}
	if synonym != nil && synonym != match {
		leaf.Name = submitted
		leaf.ExternalID = fmt.Sprintf("%d", synonym.Key)
		leaf.AuthorityURL = r.gbif.SpeciesURL(synonym.Key)
		leaf.Status = taxon.Synonym
	}
	return append(rows, leaf)
}

// addContributions runs the soft-contributing authorities in their fixed
// order and appends whatever each of them recognizes. The catalogue
// result is returned for the common-name chain.
func (r *ioresolve) addContributions(
	ctx context.Context,
	c *taxon.Classification,
	rank taxon.Rank,
	accepted, submitted string,
) *ioauthority.COLResult {
	// Encyclopedic page id: retried with the accepted name when the
	// submitted one has no page.
	pageID, err := r.eol.PageID(ctx, submitted)
	if err != nil && accepted != submitted {
		pageID, err = r.eol.PageID(ctx, accepted)
	}
	if err == nil {
		c.Rows = append(c.Rows, taxon.Row{
			Name:         accepted,
			Rank:         rank,
			ExternalID:   fmt.Sprintf("%d", pageID),
			Authority:    ioauthority.EOLLabel,
			AuthorityURL: r.eol.PageURL(pageID),
			Status:       taxon.Accepted,
		})
	}

	// Catalogue: species rank only, subspecies are not supported there.
	var colResult *ioauthority.COLResult
	if rank == taxon.Species {
		colResult, err = r.col.Search(ctx, accepted, rank)
		if err == nil {
			c.Rows = append(c.Rows, r.colRows(colResult, accepted)...)
		}
	}

	if tsn, err := r.itis.TSN(ctx, accepted); err == nil {
		if nodes, err := r.itis.Hierarchy(ctx, tsn); err == nil {
			c.Rows = append(c.Rows, r.itisRows(nodes, accepted)...)
		}
	}

	if code, err := r.euring.Code(accepted); err == nil {
		c.Rows = append(c.Rows, taxon.Row{
			Name:       accepted,
			Rank:       rank,
			ExternalID: code,
			Authority:  ioauthority.EuringLabel,
			Status:     taxon.Accepted,
		})
	}

	return colResult
}

func (r *ioresolve) colRows(
	res *ioauthority.COLResult,
	accepted string,
) []taxon.Row {
	var rows []taxon.Row
	for _, node := range res.Classification {
		rank, ok := taxon.Recognized(node.Rank)
		if !ok {
			continue
		}
		row := taxon.Row{
			Name:         node.Name,
			Rank:         rank,
			ExternalID:   node.ID,
			Authority:    ioauthority.COLLabel,
			AuthorityURL: r.col.TaxonURL(node.ID),
		}
		if node.Name == accepted {
			row.Status = taxon.Accepted
		}
		rows = append(rows, row)
	}
	return rows
}

// itisRows keeps the upward part of the hierarchy: recognized ranks up to
// and including the node carrying the accepted name. The service also
// lists children below the query node, those are dropped.
func (r *ioresolve) itisRows(
	nodes []ioauthority.ITISNode,
	accepted string,
) []taxon.Row {
	var rows []taxon.Row
	for _, node := range nodes {
		rank, ok := taxon.Recognized(node.RankName)
		if !ok {
			continue
		}
		row := taxon.Row{
			Name:         node.TaxonName,
			Rank:         rank,
			ExternalID:   node.TSN,
			Authority:    ioauthority.ITISLabel,
			AuthorityURL: r.itis.TaxonURL(node.TSN),
		}
		if node.TaxonName == accepted {
			row.Status = taxon.Accepted
			rows = append(rows, row)
			break
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 || rows[len(rows)-1].Status != taxon.Accepted {
		return nil
	}
	return rows
}

// commonName walks the vernacular priority chain: knowledge graph
// intersected with the catalogue, then the graph alone (with operator
// choice on ambiguity), then catalogue names, then the encyclopedic page
// scrape, then manual entry.
func (r *ioresolve) commonName(
	ctx context.Context,
	accepted string,
	colResult *ioauthority.COLResult,
) (string, error) {
	graph, _ := r.wikidata.CommonNames(ctx, accepted)

	var colNames []string
	if colResult != nil {
		colNames = colResult.Vernaculars
	}

	if len(graph) > 0 {
		if common := intersect(graph, colNames); len(common) > 0 {
			return common[0], nil
		}
		if len(graph) == 1 {
			return graph[0], nil
		}
		prompt := fmt.Sprintf(
			"Several common names are known for %q. Pick one", accepted,
		)
		idx, err := r.dis.ChooseOne(ctx, prompt, graph)
		if err != nil {
			return "", err
		}
		return graph[idx], nil
	}

	if len(colNames) > 0 {
		return colNames[0], nil
	}

	if pageID, err := r.eol.PageID(ctx, accepted); err == nil {
		if names, err := r.eol.CommonNames(ctx, pageID); err == nil {
			return names[0], nil
		}
	}

	prompt := fmt.Sprintf(
		"No authority knows a common name for %q. Enter one", accepted,
	)
	name, err := r.dis.ProvideValue(ctx, prompt)
	if err != nil {
		return "", VernacularError(accepted, err)
	}
	return name, nil
}

// canonical strips authorship off a scientific name string.
func (r *ioresolve) canonical(name string) string {
	if name == "" {
		return ""
	}
	parsed := r.parser.ParseName(name)
	if !parsed.Parsed || parsed.Canonical == nil {
		return ""
	}
	return parsed.Canonical.Simple
}

// intersect returns the elements of a present, case-insensitively, in b,
// keeping a's order.
func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[strings.ToLower(s)] = struct{}{}
	}
	var res []string
	for _, s := range a {
		if _, ok := set[strings.ToLower(s)]; ok {
			res = append(res, s)
		}
	}
	return res
}
