// Package config provides configuration management for the SPI-Birds
// metadata pipeline.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Environment Variables
//
// Use SPIMETA_ prefix with underscores for nesting:
//
//	SPIMETA_SHEET_URL=https://...
//	SPIMETA_LOG_LEVEL=info
package config

// Config represents the complete pipeline configuration.
type Config struct {
	// Sheet contains settings for the submission spreadsheet export.
	Sheet SheetConfig `mapstructure:"sheet" yaml:"sheet"`

	// Authority contains base URLs for the external taxonomic services.
	// Overridable so tests can point the clients at local servers.
	Authority AuthorityConfig `mapstructure:"authority" yaml:"authority"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, cache, data and logs directories
	// reside. It must be set by CLI during init, there is no default for it.
	HomeDir string
}

// SheetConfig contains settings for reading submissions from the
// form-builder spreadsheet export.
type SheetConfig struct {
	// URL is the address of the CSV export of the submission sheet.
	URL string `mapstructure:"url" yaml:"url"`

	// Token is the operator credential sent as a bearer token.
	// Empty means the export is public.
	Token string `mapstructure:"token" yaml:"token"`
}

// AuthorityConfig contains base URLs of the external services consumed
// by the taxon resolver and the transformer.
type AuthorityConfig struct {
	// GBIFHost is the base URL of the primary nomenclature backbone.
	GBIFHost string `mapstructure:"gbif_host" yaml:"gbif_host"`

	// EOLHost is the base URL of the encyclopedic reference service.
	EOLHost string `mapstructure:"eol_host" yaml:"eol_host"`

	// COLHost is the base URL of the catalogue name-match service.
	COLHost string `mapstructure:"col_host" yaml:"col_host"`

	// ITISHost is the base URL of the national nomenclature system.
	ITISHost string `mapstructure:"itis_host" yaml:"itis_host"`

	// WikidataHost is the base URL of the knowledge-graph SPARQL endpoint
	// used for vernacular names.
	WikidataHost string `mapstructure:"wikidata_host" yaml:"wikidata_host"`

	// DOIHost is the base URL of the citation resolver.
	DOIHost string `mapstructure:"doi_host" yaml:"doi_host"`

	// MapHost is the base URL of the static map renderer.
	MapHost string `mapstructure:"map_host" yaml:"map_host"`

	// WithCache enables the on-disk cache of authority responses.
	WithCache *bool `mapstructure:"with_cache" yaml:"with_cache"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	withCache := true
	res := &Config{
		Sheet: SheetConfig{},
		Authority: AuthorityConfig{
			GBIFHost:     "https://api.gbif.org/v1",
			EOLHost:      "https://eol.org",
			COLHost:      "https://api.checklistbank.org",
			ITISHost:     "https://www.itis.gov/ITISWebService",
			WikidataHost: "https://query.wikidata.org",
			DOIHost:      "https://doi.org",
			MapHost:      "https://staticmap.openstreetmap.de",
			WithCache:    &withCache,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}
