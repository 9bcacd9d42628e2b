package ioauthority

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// ITIS is the client of the Integrated Taxonomic Information System
// web services. It contributes a TSN and a full hierarchy.
type ITIS struct {
	fetcher
}

// NewITIS creates an ITIS client for the given base URL.
func NewITIS(host string, cache *Cache) *ITIS {
	return &ITIS{fetcher: newFetcher(ITISLabel, host, cache)}
}

type itisSearchResponse struct {
	ScientificNames []struct {
		TSN          string `json:"tsn"`
		CombinedName string `json:"combinedName"`
	} `json:"scientificNames"`
}

// ITISNode is one node of an ITIS hierarchy.
type ITISNode struct {
	TSN       string `json:"tsn"`
	TaxonName string `json:"taxonName"`
	RankName  string `json:"rankName"`
}

type itisHierarchyResponse struct {
	HierarchyList []ITISNode `json:"hierarchyList"`
}

// TSN looks a name up and returns its taxonomic serial number.
func (i *ITIS) TSN(ctx context.Context, name string) (string, error) {
	u := fmt.Sprintf(
		"%s/searchByScientificName?srchKey=%s", i.host, url.QueryEscape(name),
	)
	var resp itisSearchResponse
	if err := i.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("ITIS lookup failed", "name", name, "error", err)
		return "", ErrNotFound
	}
	for _, n := range resp.ScientificNames {
		if n.CombinedName == name {
			return n.TSN, nil
		}
	}
	return "", ErrNotFound
}

// Hierarchy returns the full upward hierarchy of a TSN, most inclusive
// rank first. The resolver keeps only the ranks it recognizes.
func (i *ITIS) Hierarchy(ctx context.Context, tsn string) ([]ITISNode, error) {
	u := fmt.Sprintf(
		"%s/getFullHierarchyFromTSN?tsn=%s", i.host, url.QueryEscape(tsn),
	)
	var resp itisHierarchyResponse
	if err := i.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("ITIS hierarchy failed", "tsn", tsn, "error", err)
		return nil, ErrNotFound
	}
	if len(resp.HierarchyList) == 0 {
		return nil, ErrNotFound
	}
	return resp.HierarchyList, nil
}

// TaxonURL returns the provenance URL for a TSN.
func (i *ITIS) TaxonURL(tsn string) string {
	return "https://www.itis.gov/servlet/SingleRpt/SingleRpt?search_topic=TSN&search_value=" + tsn
}
