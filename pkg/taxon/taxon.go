// Package taxon defines the unified classification model produced by the
// taxon resolver.
//
// Every external authority that recognizes a submitted name contributes its
// own rank hierarchy tagged with its own identifiers. Contributions are
// concatenated, not merged: multiple ids per rank are expected and
// preserved, with provenance kept per row.
package taxon

import (
	"slices"
	"strings"

	"github.com/gnames/gnparser"
)

// Rank is one of the eight recognized taxonomic ranks, ordered from the
// most inclusive to the most specific.
type Rank string

const (
	Kingdom    Rank = "kingdom"
	Phylum     Rank = "phylum"
	Class      Rank = "class"
	Order      Rank = "order"
	Family     Rank = "family"
	Genus      Rank = "genus"
	Species    Rank = "species"
	Subspecies Rank = "subspecies"
)

// Ranks lists the recognized ranks in canonical order.
var Ranks = []Rank{
	Kingdom, Phylum, Class, Order, Family, Genus, Species, Subspecies,
}

// Index returns the position of a rank in the canonical order, or -1 for
// an unrecognized rank.
func Index(r Rank) int {
	return slices.Index(Ranks, r)
}

// Recognized reports whether a rank string (any case) is one of the eight
// recognized ranks.
func Recognized(s string) (Rank, bool) {
	r := Rank(strings.ToLower(strings.TrimSpace(s)))
	return r, Index(r) >= 0
}

// Status is the taxonomic status of a terminal row relative to the
// submitted name.
type Status string

const (
	// NoStatus marks non-terminal rows of a hierarchy.
	NoStatus Status = ""
	// Accepted marks the terminal row carrying the currently valid name.
	Accepted Status = "accepted"
	// Synonym marks a retained terminal row carrying the originally
	// submitted, now deprecated name.
	Synonym Status = "synonym"
)

// Row is a single rank record contributed by one authority.
type Row struct {
	Name         string `json:"name"`
	Rank         Rank   `json:"rank"`
	ExternalID   string `json:"externalId"`
	Authority    string `json:"authority"`
	AuthorityURL string `json:"authorityUrl"`
	Status       Status `json:"status,omitempty"`
}

// Classification is the unioned per-rank classification for one submitted
// name, with provenance.
type Classification struct {
	// Submitted is the scientific name as given in the submission.
	Submitted string `json:"submitted"`
	// Accepted is the currently valid scientific name; equals Submitted
	// unless synonym disambiguation replaced it.
	Accepted string `json:"accepted"`
	// Authorship is the name authorship string when an authority
	// provided one.
	Authorship string `json:"authorship,omitempty"`
	// CommonName is the English vernacular name attached to the leaf.
	CommonName string `json:"commonName,omitempty"`
	// Rows holds all rank records, grouped by authority in query order,
	// each group ordered kingdom → leaf.
	Rows []Row `json:"rows"`
}

// IsSynonym reports whether the submitted name was resolved through a
// synonym relation.
func (c *Classification) IsSynonym() bool {
	return c.Accepted != "" && c.Accepted != c.Submitted
}

// Authorities returns the distinct authority labels present in the
// classification, in first-seen order.
func (c *Classification) Authorities() []string {
	var res []string
	seen := make(map[string]struct{})
	for _, row := range c.Rows {
		if _, ok := seen[row.Authority]; ok {
			continue
		}
		seen[row.Authority] = struct{}{}
		res = append(res, row.Authority)
	}
	return res
}

// ByAuthority returns the rows contributed by one authority, in their
// original order.
func (c *Classification) ByAuthority(authority string) []Row {
	var res []Row
	for _, row := range c.Rows {
		if row.Authority == authority {
			res = append(res, row)
		}
	}
	return res
}

// ExternalID returns the leaf identifier assigned by one authority, or ""
// when the authority did not recognize the name.
func (c *Classification) ExternalID(authority string) string {
	rows := c.ByAuthority(authority)
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Status == Accepted {
			return rows[i].ExternalID
		}
	}
	if len(rows) > 0 {
		return rows[len(rows)-1].ExternalID
	}
	return ""
}

// Validate checks the per-authority rank sequence invariant: within one
// authority's contribution ranks are unique and strictly ordered
// kingdom → subspecies.
func (c *Classification) Validate() error {
	for _, auth := range c.Authorities() {
		prev := -1
		for _, row := range c.ByAuthority(auth) {
			idx := Index(row.Rank)
			if idx < 0 {
				return RankError(auth, string(row.Rank), "unrecognized rank")
			}
			if idx <= prev {
				return RankError(
					auth, string(row.Rank), "ranks out of order or duplicated",
				)
			}
			prev = idx
		}
	}
	return nil
}

// ExpectedRank derives the rank of a submitted scientific name from its
// token count: genus + epithet is a species, an extra epithet makes it a
// subspecies. Any other shape is rejected.
func ExpectedRank(p gnparser.GNparser, name string) (Rank, error) {
	parsed := p.ParseName(name)
	if !parsed.Parsed {
		return "", NameParseError(name)
	}
	switch parsed.Cardinality {
	case 2:
		return Species, nil
	case 3:
		return Subspecies, nil
	default:
		return "", NameParseError(name)
	}
}

// Epithets splits a canonical name into its tokens (genus, species
// epithet, optional subspecies epithet).
func Epithets(name string) []string {
	return strings.Fields(strings.TrimSpace(name))
}
