package iomaps

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// FetchError creates an error for a site map image that could not be
// produced. Callers log it as a warning; the conversion continues.
func FetchError(siteID string, err error) error {
	msg := `Cannot save a map image for site <em>%s</em>

The conversion is complete without it; fetch the image by hand if it
is wanted.`

	vars := []any{siteID}

	return &gn.Error{
		Code: errcode.MapFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot save map for %s: %w", siteID, err),
	}
}
