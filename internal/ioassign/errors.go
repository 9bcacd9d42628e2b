package ioassign

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// SpeciesIDError creates an error for a scientific name too short or too
// oddly shaped to derive a 6-letter species identifier from.
func SpeciesIDError(name string) error {
	msg := `Cannot derive a species identifier from <em>%s</em>

A binomial needs at least 3 letters in genus and epithet, a trinomial
at least 4 in the subspecies epithet.`

	vars := []any{name}

	return &gn.Error{
		Code: errcode.AssignSpeciesIDError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot derive species id from: %s", name),
	}
}
