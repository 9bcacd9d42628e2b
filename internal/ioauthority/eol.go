package ioauthority

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// EOL is the client of the encyclopedic reference service. It
// contributes a page identifier and serves as the next-to-last fallback
// for common names.
type EOL struct {
	fetcher
}

// NewEOL creates an EOL client for the given base URL.
func NewEOL(host string, cache *Cache) *EOL {
	return &EOL{fetcher: newFetcher(EOLLabel, host, cache)}
}

type eolSearchResponse struct {
	Results []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

// PageID looks a name up and returns its page id. Returns ErrNotFound
// when the service has no page; the resolver retries once with the
// disambiguated accepted name.
func (e *EOL) PageID(ctx context.Context, name string) (int, error) {
	u := fmt.Sprintf(
		"%s/api/search/1.0.json?q=%s&exact=true", e.host, url.QueryEscape(name),
	)
	var resp eolSearchResponse
	if err := e.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("EOL lookup failed", "name", name, "error", err)
		return 0, ErrNotFound
	}
	if len(resp.Results) == 0 {
		return 0, ErrNotFound
	}
	return resp.Results[0].ID, nil
}

type eolPageResponse struct {
	TaxonConcept struct {
		VernacularNames []struct {
			Vernacular string `json:"vernacularName"`
			Language   string `json:"language"`
		} `json:"vernacularNames"`
	} `json:"taxonConcept"`
}

// CommonNames scrapes the English vernacular names off a page. Used as
// the next-to-last step of the common-name priority chain.
func (e *EOL) CommonNames(ctx context.Context, pageID int) ([]string, error) {
	u := fmt.Sprintf(
		"%s/api/pages/1.0/%d.json?common_names=true", e.host, pageID,
	)
	var resp eolPageResponse
	if err := e.getJSON(ctx, u, &resp); err != nil {
		slog.Debug("EOL page scrape failed", "page_id", pageID, "error", err)
		return nil, ErrNotFound
	}
	var res []string
	for _, v := range resp.TaxonConcept.VernacularNames {
		if v.Language == "en" && v.Vernacular != "" {
			res = append(res, v.Vernacular)
		}
	}
	if len(res) == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}

// PageURL returns the provenance URL for a page id.
func (e *EOL) PageURL(pageID int) string {
	return "https://eol.org/pages/" + strconv.Itoa(pageID)
}
