// Package iosheet reads submissions from the form builder's CSV export.
//
// The export is read once per conversion; column labels are mapped to
// the semantic field names of pkg/record before ingestion, so label
// re-wordings only touch the embedded mapping, never the code.
package iosheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SPI-Birds/metadata/internal/iofs"
	"github.com/SPI-Birds/metadata/pkg/config"
	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/SPI-Birds/metadata/pkg/record"
	"github.com/gnames/gnlib"
)

// Reader fetches and parses the submission sheet.
type Reader struct {
	url     string
	token   string
	mapping map[string]string
	client  *http.Client
	dis     pipeline.Disambiguator
}

// New creates a sheet reader from the configured export URL and
// credential.
func New(cfg *config.Config, dis pipeline.Disambiguator) (*Reader, error) {
	mapping, err := iofs.ColumnMapping()
	if err != nil {
		return nil, err
	}
	return &Reader{
		url:     cfg.Sheet.URL,
		token:   cfg.Sheet.Token,
		mapping: mapping,
		client:  &http.Client{Timeout: 60 * time.Second},
		dis:     dis,
	}, nil
}

// All fetches the export and returns every submission row.
func (r *Reader) All(ctx context.Context) ([]*record.Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, FetchError(r.url, err)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, FetchError(r.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, FetchError(
			r.url, fmt.Errorf("status %d", resp.StatusCode),
		)
	}
	return r.parse(resp.Body)
}

func (r *Reader) parse(body io.Reader) ([]*record.Submission, error) {
	cr := csv.NewReader(body)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, ParseError(err)
	}
	if len(rows) == 0 {
		return nil, ParseError(fmt.Errorf("export has no header row"))
	}

	// Header labels become semantic field names; unknown columns are
	// carried under their own label and simply ignored downstream.
	fields := make([]string, len(rows[0]))
	for i, label := range rows[0] {
		label = strings.TrimSpace(label)
		if name, ok := r.mapping[label]; ok {
			fields[i] = name
		} else {
			fields[i] = label
		}
	}

	var res []*record.Submission
	for _, row := range rows[1:] {
		m := make(map[string]string, len(fields))
		for i, v := range row {
			if i < len(fields) {
				// Exports of old submissions carry mojibake in
				// free-text answers.
				m[fields[i]] = gnlib.FixUtf8(v)
			}
		}
		sub, err := record.FromRow(m)
		if err != nil {
			return nil, err
		}
		res = append(res, sub)
	}
	return res, nil
}

// ForIdentity fetches the export and selects the submission whose
// creator name or email matches, case-insensitively. More than one match
// suspends and asks the operator.
func (r *Reader) ForIdentity(
	ctx context.Context, identity string,
) (*record.Submission, error) {
	subs, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(identity))
	var matches []*record.Submission
	for _, sub := range subs {
		if strings.ToLower(sub.CreatorName) == want ||
			strings.ToLower(sub.CreatorEmail) == want {
			matches = append(matches, sub)
		}
	}

	switch len(matches) {
	case 0:
		return nil, IdentityNotFoundError(identity)
	case 1:
		return matches[0], nil
	}

	options := make([]string, len(matches))
	for i, sub := range matches {
		options[i] = fmt.Sprintf(
			"%s <%s> %s, submitted %s",
			sub.CreatorName, sub.CreatorEmail, sub.SiteName,
			sub.SubmittedAt.Format("2006-01-02"),
		)
	}
	idx, err := r.dis.ChooseOne(
		ctx,
		fmt.Sprintf("Several submissions match %q. Pick one", identity),
		options,
	)
	if err != nil {
		return nil, err
	}
	return matches[idx], nil
}
