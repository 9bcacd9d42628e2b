package iocite

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// CitationError creates an error for a DOI that did not resolve to a
// bibliographic record. It is fatal to the conversion: the citation list
// is complete or absent, never partial.
func CitationError(doi string, err error) error {
	msg := `Cannot resolve DOI <em>%s</em>

Check the DOI in the submission. No document is produced until every
submitted DOI resolves.`

	vars := []any{doi}

	if err == nil {
		err = fmt.Errorf("cannot resolve doi: %s", doi)
	} else {
		err = fmt.Errorf("cannot resolve doi %s: %w", doi, err)
	}

	return &gn.Error{
		Code: errcode.TransformCitationError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}
