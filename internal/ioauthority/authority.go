// Package ioauthority implements the HTTP clients for the external
// taxonomic authorities and the knowledge-graph vernacular service.
//
// All clients share the same failure model: an unreachable service or a
// malformed response is indistinguishable from "no record" - the caller
// receives a NotFound result and the classification degrades instead of
// aborting. Calls are sequential blocking I/O with no retries.
package ioauthority

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gnames/gnfmt"
)

// Authority labels used for provenance throughout the pipeline.
const (
	GBIFLabel     = "GBIF"
	EOLLabel      = "EOL"
	COLLabel      = "COL"
	ITISLabel     = "ITIS"
	EuringLabel   = "EURING"
	WikidataLabel = "Wikidata"
)

// ErrNotFound is the uniform soft-missing result of every client: the
// authority has no record, is unreachable, or answered with something we
// cannot read.
var ErrNotFound = fmt.Errorf("authority has no record")

// fetcher is the shared HTTP plumbing of the clients: one base URL, one
// authority label for cache keys and logs.
type fetcher struct {
	label  string
	host   string
	client *http.Client
	cache  *Cache
}

func newFetcher(label, host string, cache *Cache) fetcher {
	return fetcher{
		label:  label,
		host:   host,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache,
	}
}

// getJSON fetches a URL (cache first) and decodes the JSON body into
// out. Any transport or decode failure, and any non-200 status, comes
// back as an error the caller maps to soft-missing.
func (f *fetcher) getJSON(ctx context.Context, url string, out any) error {
	body, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	enc := gnfmt.GNjson{}
	if err = enc.Decode(body, out); err != nil {
		return fmt.Errorf("%s: cannot decode response: %w", f.label, err)
	}
	return nil
}

func (f *fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.cache.Get(f.label, url); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d for %s", f.label, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.label, err)
	}

	f.cache.Put(f.label, url, body)
	return body, nil
}
