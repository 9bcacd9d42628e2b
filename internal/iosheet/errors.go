package iosheet

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// FetchError creates an error for a submission export that cannot be
// downloaded.
func FetchError(url string, err error) error {
	msg := `Cannot fetch the submission sheet from <em>%s</em>

Check the sheet URL and token in the configuration file.`

	vars := []any{url}

	return &gn.Error{
		Code: errcode.SheetFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot fetch sheet %s: %w", url, err),
	}
}

// ParseError creates an error for an export that is not readable CSV.
func ParseError(err error) error {
	msg := `Cannot parse the submission sheet export`

	return &gn.Error{
		Code: errcode.SheetParseError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot parse sheet: %w", err),
	}
}

// IdentityNotFoundError creates an error for an identity with no
// submission in the sheet.
func IdentityNotFoundError(identity string) error {
	msg := `No submission matches <em>%s</em>

The identity must equal a submitter's name or e-mail address as given
in the form.`

	vars := []any{identity}

	return &gn.Error{
		Code: errcode.SheetIdentityNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no submission for identity: %s", identity),
	}
}
