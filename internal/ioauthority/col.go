package ioauthority

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/SPI-Birds/metadata/pkg/taxon"
)

// COL is the client of the Catalogue of Life ChecklistBank API. It
// contributes classification rows and sits second in the common-name
// priority chain.
type COL struct {
	fetcher
}

// NewCOL creates a Catalogue of Life client for the given base URL.
func NewCOL(host string, cache *Cache) *COL {
	return &COL{fetcher: newFetcher(COLLabel, host, cache)}
}

// COLRank is one node of a Catalogue of Life classification.
type COLRank struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank string `json:"rank"`
}

// COLResult is what the resolver consumes: the usage id of the matched
// name, its full classification and its English vernacular names.
type COLResult struct {
	ID             string
	Classification []COLRank
	Vernaculars    []string
}

type colSearchResponse struct {
	Result []struct {
		ID    string `json:"id"`
		Usage struct {
			Name struct {
				ScientificName string `json:"scientificName"`
			} `json:"name"`
			Status string `json:"status"`
		} `json:"usage"`
		Classification []COLRank `json:"classification"`
	} `json:"result"`
}

type colVernacularResponse struct {
	Result []struct {
		Name     string `json:"name"`
		Language string `json:"language"`
	} `json:"result"`
}

// Search looks a name up in the default checklist. Only exact matches
// at the rank the name implies are used; anything else degrades to
// ErrNotFound.
func (c *COL) Search(ctx context.Context, name string, rank taxon.Rank) (*COLResult, error) {
	u := fmt.Sprintf(
		"%s/dataset/3LR/nameusage/search?q=%s&content=SCIENTIFIC_NAME&rank=%s&limit=50",
		c.host, url.QueryEscape(name), url.QueryEscape(colRank(rank)),
	)
	var resp colSearchResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("COL lookup failed", "name", name, "error", err)
		return nil, ErrNotFound
	}

	for _, r := range resp.Result {
		if r.Usage.Name.ScientificName != name {
			continue
		}
		res := &COLResult{ID: r.ID, Classification: r.Classification}
		res.Vernaculars = c.vernaculars(ctx, r.ID)
		return res, nil
	}
	return nil, ErrNotFound
}

// vernaculars collects the English common names of a usage. A failed
// call leaves the result empty; the common-name chain has further
// fallbacks.
func (c *COL) vernaculars(ctx context.Context, id string) []string {
	u := fmt.Sprintf("%s/dataset/3LR/taxon/%s/vernacular", c.host, url.PathEscape(id))
	var resp colVernacularResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("COL vernaculars failed", "id", id, "error", err)
		return nil
	}
	var res []string
	for _, v := range resp.Result {
		if (v.Language == "eng" || v.Language == "en") && v.Name != "" {
			res = append(res, v.Name)
		}
	}
	return res
}

// TaxonURL returns the provenance URL for a usage id.
func (c *COL) TaxonURL(id string) string {
	return "https://www.checklistbank.org/dataset/3LR/taxon/" + id
}

func colRank(r taxon.Rank) string {
	switch r {
	case taxon.Species:
		return "species"
	case taxon.Subspecies:
		return "subspecies"
	default:
		return "species"
	}
}
