package record

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// FieldError creates an error for a submission answer that cannot be
// parsed into its typed field. This is a hard input-validation failure:
// the submission has to be corrected and re-run.
func FieldError(field, value string, err error) error {
	msg := `Cannot parse submission field

<em>Field:</em> %s
<em>Answer:</em> %q

<em>How to fix:</em>
  1. Correct the answer in the overview sheet
  2. Re-run the conversion`

	vars := []any{field, value}

	if err == nil {
		err = fmt.Errorf("malformed value %q", value)
	}

	return &gn.Error{
		Code: errcode.RecordFieldError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("field %s: %w", field, err),
	}
}
