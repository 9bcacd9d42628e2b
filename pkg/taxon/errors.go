package taxon

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// NameParseError creates an error for a submitted name that is not a
// 2- or 3-token scientific name.
func NameParseError(name string) error {
	msg := `Cannot interpret <em>%s</em> as a scientific name

A species name needs two tokens (genus and epithet), a subspecies
name three.`

	vars := []any{name}

	return &gn.Error{
		Code: errcode.ResolveNameParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot parse name: %s", name),
	}
}

// RankError creates an error for a classification that violates the rank
// sequence invariant.
func RankError(authority, rank, reason string) error {
	msg := `Malformed classification from <em>%s</em>

<em>Rank:</em> %s
<em>Problem:</em> %s`

	vars := []any{authority, rank, reason}

	return &gn.Error{
		Code: errcode.ResolveAuthorityError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"classification from %s: rank %s: %s", authority, rank, reason,
		),
	}
}
