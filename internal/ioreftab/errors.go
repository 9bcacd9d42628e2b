package ioreftab

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// LoadError creates an error for a reference table that cannot be read.
func LoadError(path string, err error) error {
	msg := `Cannot read reference table <em>%s</em>

The file may be corrupted. Restore it from the latest archive copy.`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.TableLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read table %s: %w", path, err),
	}
}

// ArchiveError creates an error for a failed archive copy. No merge
// proceeds without one.
func ArchiveError(path string, err error) error {
	msg := `Cannot archive reference table <em>%s</em>

Nothing was merged. Free up space or fix permissions and re-run.`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.TableArchiveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot archive table %s: %w", path, err),
	}
}

// SaveError creates an error for a failed table write.
func SaveError(path string, err error) error {
	msg := `Cannot write reference table <em>%s</em>

The prior state is still intact in the archive directory.`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.TableSaveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write table %s: %w", path, err),
	}
}

// IntegrityError creates an error for a violated table invariant; the
// save is rejected as a whole.
func IntegrityError(problem string) error {
	msg := `Reference table integrity violation

%s. Nothing was written.`

	vars := []any{problem}

	return &gn.Error{
		Code: errcode.TableIntegrityError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("table integrity: %s", problem),
	}
}
