// Package iocite resolves DOIs into bibliographic records via content
// negotiation against the DOI resolver.
//
// Unlike the taxonomic authorities a failed DOI is a hard
// input-validation failure: the document either carries the complete
// citation list or none, never a partial one.
package iocite

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SPI-Birds/metadata/pkg/eml"
	"golang.org/x/sync/errgroup"
)

// Resolver turns DOI strings into BibTeX citations.
type Resolver struct {
	host   string
	client *http.Client
}

// New creates a resolver against the given DOI host.
func New(host string) *Resolver {
	return &Resolver{
		host:   strings.TrimRight(host, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Normalize strips the accepted DOI prefixes off a submitted token.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range []string{
		"https://doi.org/", "http://doi.org/", "doi.org/", "doi:",
	} {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}

// Resolve fetches the BibTeX record of one DOI.
func (r *Resolver) Resolve(ctx context.Context, doi string) (eml.Citation, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, r.host+"/"+doi, nil,
	)
	if err != nil {
		return eml.Citation{}, CitationError(doi, err)
	}
	req.Header.Set("Accept", "application/x-bibtex")

	resp, err := r.client.Do(req)
	if err != nil {
		return eml.Citation{}, CitationError(doi, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eml.Citation{}, CitationError(doi, nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eml.Citation{}, CitationError(doi, err)
	}
	bib := strings.TrimSpace(string(body))
	if bib == "" {
		return eml.Citation{}, CitationError(doi, nil)
	}
	return eml.Citation{Bibtex: bib}, nil
}

// ResolveAll normalizes and resolves the submitted DOI tokens,
// preserving their order: the first becomes the reference publication,
// the rest literature cited. Any single failure aborts the whole batch.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	raw []string,
) (*eml.Citations, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	results := make([]eml.Citation, len(raw))
	g, ctx := errgroup.WithContext(ctx)
	for i, token := range raw {
		g.Go(func() error {
			c, err := r.Resolve(ctx, Normalize(token))
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &eml.Citations{ReferencePublication: &results[0]}
	if len(results) > 1 {
		res.LiteratureCited = results[1:]
	}
	return res, nil
}
