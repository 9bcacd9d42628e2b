package ioauthority

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Wikidata is the client of the knowledge-graph SPARQL endpoint. It
// contributes English common names, the first link of the common-name
// priority chain.
type Wikidata struct {
	fetcher
}

// NewWikidata creates a Wikidata client for the given base URL.
func NewWikidata(host string, cache *Cache) *Wikidata {
	return &Wikidata{fetcher: newFetcher(WikidataLabel, host, cache)}
}

type wikidataResponse struct {
	Results struct {
		Bindings []struct {
			Name struct {
				Value string `json:"value"`
			} `json:"name"`
		} `json:"bindings"`
	} `json:"results"`
}

// CommonNames returns the English common names attached to a taxon with
// the given scientific name, in the order the endpoint returns them.
func (w *Wikidata) CommonNames(ctx context.Context, name string) ([]string, error) {
	sparql := fmt.Sprintf(`SELECT DISTINCT ?name WHERE {
  ?taxon wdt:P225 %q .
  ?taxon wdt:P1843 ?name .
  FILTER (lang(?name) = "en")
}`, name)
	u := fmt.Sprintf(
		"%s/sparql?format=json&query=%s", w.host, url.QueryEscape(sparql),
	)
	var resp wikidataResponse
	if err := w.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("Wikidata lookup failed", "name", name, "error", err)
		return nil, ErrNotFound
	}
	var res []string
	for _, b := range resp.Results.Bindings {
		if b.Name.Value != "" {
			res = append(res, b.Name.Value)
		}
	}
	if len(res) == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}
