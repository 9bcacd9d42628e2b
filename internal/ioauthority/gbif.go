package ioauthority

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// GBIF is the client of the primary nomenclature backbone. It is the
// only authority whose absence makes a name unresolvable.
type GBIF struct {
	fetcher
}

// NewGBIF creates a GBIF client for the given base URL.
func NewGBIF(host string, cache *Cache) *GBIF {
	return &GBIF{fetcher: newFetcher(GBIFLabel, host, cache)}
}

// GBIFMatch is one backbone name usage.
type GBIFMatch struct {
	Key             int    `json:"key"`
	ScientificName  string `json:"scientificName"`
	CanonicalName   string `json:"canonicalName"`
	Authorship      string `json:"authorship"`
	Rank            string `json:"rank"`
	TaxonomicStatus string `json:"taxonomicStatus"`
	Accepted        string `json:"accepted"`
	AcceptedKey     int    `json:"acceptedKey"`
	Kingdom         string `json:"kingdom"`
	Phylum          string `json:"phylum"`
	Class           string `json:"class"`
	Order           string `json:"order"`
	Family          string `json:"family"`
	Genus           string `json:"genus"`
	Species         string `json:"species"`
	KingdomKey      int    `json:"kingdomKey"`
	PhylumKey       int    `json:"phylumKey"`
	ClassKey        int    `json:"classKey"`
	OrderKey        int    `json:"orderKey"`
	FamilyKey       int    `json:"familyKey"`
	GenusKey        int    `json:"genusKey"`
	SpeciesKey      int    `json:"speciesKey"`
}

// IsSynonym reports whether the backbone flags this usage as a synonym.
func (m *GBIFMatch) IsSynonym() bool {
	return m.TaxonomicStatus == "SYNONYM" ||
		m.TaxonomicStatus == "HETEROTYPIC_SYNONYM" ||
		m.TaxonomicStatus == "HOMOTYPIC_SYNONYM"
}

type gbifSearchResponse struct {
	Results []GBIFMatch `json:"results"`
}

// Match returns the backbone usages whose canonical name matches the
// queried name exactly. An empty slice with a nil error means the
// backbone genuinely has no record; soft failures return ErrNotFound.
func (g *GBIF) Match(ctx context.Context, name string) ([]GBIFMatch, error) {
	u := fmt.Sprintf(
		"%s/species?name=%s&limit=50", g.host, url.QueryEscape(name),
	)
	var resp gbifSearchResponse
	if err := g.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("GBIF lookup failed", "name", name, "error", err)
		return nil, ErrNotFound
	}

	var res []GBIFMatch
	for _, m := range resp.Results {
		if m.CanonicalName == name {
			res = append(res, m)
		}
	}
	return res, nil
}

// SpeciesURL returns the provenance URL for a backbone usage key.
func (g *GBIF) SpeciesURL(key int) string {
	return "https://www.gbif.org/species/" + strconv.Itoa(key)
}
