package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/SPI-Birds/metadata/internal/iofs"
	"github.com/SPI-Birds/metadata/internal/iomerge"
	"github.com/SPI-Birds/metadata/internal/ioreftab"
	"github.com/SPI-Birds/metadata/pkg/config"
	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getMergeCmd returns the merge command.
func getMergeCmd() *cobra.Command {
	mergeCmd := &cobra.Command{
		Use:   "merge <conversion-dir>",
		Short: "Apply a conversion result to the reference tables",
		Long: `Apply the result of an earlier conversion to the Site, Study and
Species reference tables.

The argument is the conversion directory written by 'spimeta convert'.
The current tables are archived first; then the study, its site and any
species new to the network are appended or updated, and the tables are
saved atomically. A merge either applies completely or not at all.

Examples:
  # Apply the conversion of study HOG-1
  spimeta merge ~/.local/share/spimeta/data/conversions/HOG-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(args[0])
		},
	}

	return mergeCmd
}

func runMerge(dir string) error {
	ctx := context.Background()

	resPath := filepath.Join(dir, "result.json")
	data, err := os.ReadFile(resPath)
	if err != nil {
		err = iofs.ReadFileError(resPath, err)
		gn.PrintErrorMessage(err)
		return err
	}
	var res pipeline.Result
	enc := gnfmt.GNjson{}
	if err = enc.Decode(data, &res); err != nil {
		err = iofs.ReadFileError(resPath, err)
		gn.PrintErrorMessage(err)
		return err
	}

	repo := ioreftab.New(
		config.DataDir(cfg.HomeDir), config.ArchiveDir(cfg.HomeDir),
	)
	merger, err := iomerge.New(repo)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = merger.Merge(ctx, &res); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(`Study <em>%s</em> is merged into the reference tables.

The prior tables are archived under <em>%s</em>.`,
		res.IDs.StudyID, config.ArchiveDir(cfg.HomeDir),
	)

	return nil
}
