// Package iomaps fetches a static map image of a study site. The image
// is a courtesy artifact next to the document; a failure here is logged
// and never aborts a conversion.
package iomaps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Fetcher downloads rendered map tiles from a static-map service.
type Fetcher struct {
	host   string
	client *http.Client
}

// New creates a Fetcher for the configured static-map host.
func New(host string) *Fetcher {
	return &Fetcher{
		host:   host,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Save fetches a map centred on the given coordinates and writes it as
// {siteID}.png into dir.
func (f *Fetcher) Save(
	ctx context.Context, dir, siteID string, lat, lon float64,
) error {
	center := fmt.Sprintf("%.5f,%.5f", lat, lon)
	q := url.Values{}
	q.Set("center", center)
	q.Set("zoom", "10")
	q.Set("size", "600x400")
	q.Set("maptype", "mapnik")
	q.Set("markers", center+",red-pushpin")
	addr := f.host + "/staticmap.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return FetchError(siteID, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return FetchError(siteID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return FetchError(
			siteID, fmt.Errorf("status %d", resp.StatusCode),
		)
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchError(siteID, err)
	}
	path := filepath.Join(dir, siteID+".png")
	if err := os.WriteFile(path, img, 0644); err != nil {
		return FetchError(siteID, err)
	}
	return nil
}
