package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/SPI-Birds/metadata/internal/ioconfig"
	"github.com/SPI-Birds/metadata/internal/iofs"
	"github.com/SPI-Birds/metadata/internal/iologger"
	"github.com/SPI-Birds/metadata/pkg/config"
	app "github.com/SPI-Birds/metadata/pkg/spimeta"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
	Use:     "spimeta",
	Short:   "Convert study metadata submissions into EML documents",
	Long: `spimeta converts crowd-sourced study metadata submissions into
Ecological Metadata Language (EML) documents and maintains the Site,
Study and Species reference tables of the SPI-Birds network.

A conversion reads one submission from the submission sheet, reconciles
its species list across the taxonomic authorities, assigns stable
identifiers, and writes a validated EML document. A later merge applies
the conversion result to the reference tables.`,
	PersistentPreRunE: bootstrap,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults; reconfigured below
	// once the user's settings are known.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var loaded *config.Config
	if loaded, err = ioconfig.Load(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(loaded.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info(
		"Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
	)

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Remove the automatic "spimeta version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for spimeta")

	rootCmd.AddCommand(getConvertCmd())
	rootCmd.AddCommand(getMergeCmd())
}
