// Package main provides the spimeta CLI application.
// spimeta converts study metadata submissions into EML documents and
// maintains the SPI-Birds reference tables.
package main

import (
	"github.com/SPI-Birds/metadata/cmd"
)

func main() {
	cmd.Execute()
}
