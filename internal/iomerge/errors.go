package iomerge

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// SiteError creates an error for a site row that cannot be built from
// the conversion result.
func SiteError(siteID, reason string) error {
	msg := `Cannot merge site <em>%s</em>

%s.`

	vars := []any{siteID, reason}

	return &gn.Error{
		Code: errcode.MergeSiteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot merge site %s: %s", siteID, reason),
	}
}

// SpeciesError creates an error for a taxon that cannot be appended to
// the species table.
func SpeciesError(name, reason string) error {
	msg := `Cannot merge species <em>%s</em>

%s.`

	vars := []any{name, reason}

	return &gn.Error{
		Code: errcode.MergeSpeciesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot merge species %s: %s", name, reason),
	}
}

// CountryError creates an error for a country name with no matching ISO
// code in the embedded table.
func CountryError(country string) error {
	msg := `Cannot resolve a country code for <em>%s</em>

Check the country name in the submission.`

	vars := []any{country}

	return &gn.Error{
		Code: errcode.MergeCountryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no country code for: %s", country),
	}
}
