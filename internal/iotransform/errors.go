package iotransform

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// PartyError creates an error for a party role the submission does not
// describe completely enough to materialize.
func PartyError(role, reason string) error {
	msg := `Cannot build the <em>%s</em> party

%s.`

	vars := []any{role, reason}

	return &gn.Error{
		Code: errcode.TransformPartyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot build %s party: %s", role, reason),
	}
}

// CoverageError creates an error for malformed geographic coordinates.
func CoverageError(reason string) error {
	msg := `Cannot build the geographic coverage

%s.`

	vars := []any{reason}

	return &gn.Error{
		Code: errcode.TransformCoverageError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot build geographic coverage: %s", reason),
	}
}

// CitationsUnavailableError creates an error for a submission that
// carries DOIs while no citation resolver is wired in.
func CitationsUnavailableError() error {
	msg := `The submission carries DOIs but no citation resolver is configured`

	return &gn.Error{
		Code: errcode.TransformCitationError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("no citation resolver configured"),
	}
}
