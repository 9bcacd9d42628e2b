package ioauthority

import (
	"github.com/SPI-Birds/metadata/internal/iofs"
)

// Euring resolves EURING species codes from the embedded code table.
// Unlike the other authorities it involves no network I/O; the table
// ships with the binary.
type Euring struct {
	codes map[string]string
}

// NewEuring loads the embedded EURING code table.
func NewEuring() (*Euring, error) {
	codes, err := iofs.EuringTable()
	if err != nil {
		return nil, err
	}
	return &Euring{codes: codes}, nil
}

// Code returns the EURING code of a scientific name. The table covers
// species and subspecies; a name outside it returns ErrNotFound and the
// classification simply carries no EURING row.
func (e *Euring) Code(name string) (string, error) {
	code, ok := e.codes[name]
	if !ok {
		return "", ErrNotFound
	}
	return code, nil
}
