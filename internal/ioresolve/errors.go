package ioresolve

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// NotFoundError creates an error for a name the primary nomenclature
// backbone does not recognize. No fallback authority is consulted then.
func NotFoundError(name string) error {
	msg := `The nomenclature backbone has no record of <em>%s</em>

Check the spelling of the name in the submission. If the name is
correct, the backbone may be temporarily unreachable.`

	vars := []any{name}

	return &gn.Error{
		Code: errcode.ResolveNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("name not found: %s", name),
	}
}

// VernacularError creates an error for a failed manual common-name entry,
// the last resort of the vernacular chain.
func VernacularError(name string, err error) error {
	msg := `Could not obtain a common name for <em>%s</em>`

	vars := []any{name}

	return &gn.Error{
		Code: errcode.ResolveVernacularError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no common name for %s: %w", name, err),
	}
}
