package eml

import (
	"fmt"
	"strings"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// SerializeError creates an error for a document that cannot be written
// to the wire format.
func SerializeError(err error) error {
	msg := "Cannot serialize the metadata document"

	return &gn.Error{
		Code: errcode.DocSerializeError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot serialize document: %w", err),
	}
}

// SchemaError creates an error for a document that fails structural
// validation. The document file is left on disk for manual inspection;
// nothing is merged into the reference tables.
func SchemaError(problems []string, err error) error {
	msg := `The produced document is not schema-valid

<em>Problems:</em>
%s

The document file is kept for inspection. Nothing was merged.`

	var lines []string
	for _, p := range problems {
		lines = append(lines, "  * "+p)
	}
	vars := []any{strings.Join(lines, "\n")}

	if err == nil {
		err = fmt.Errorf("%d schema problems", len(problems))
	}

	return &gn.Error{
		Code: errcode.DocSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("schema validation: %w", err),
	}
}
