package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptSheetURL sets the address of the submission sheet CSV export.
func OptSheetURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Sheet URL", s) {
			c.Sheet.URL = s
		}
	}
}

// OptSheetToken sets the operator credential for the sheet export.
// Empty tokens are accepted: a public export needs none.
func OptSheetToken(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Sheet.Token = s
	}
}

// OptGBIFHost sets the base URL of the primary nomenclature backbone.
func OptGBIFHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("GBIF Host", s) {
			c.Authority.GBIFHost = s
		}
	}
}

// OptEOLHost sets the base URL of the encyclopedic reference service.
func OptEOLHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("EOL Host", s) {
			c.Authority.EOLHost = s
		}
	}
}

// OptCOLHost sets the base URL of the catalogue name-match service.
func OptCOLHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("COL Host", s) {
			c.Authority.COLHost = s
		}
	}
}

// OptITISHost sets the base URL of the national nomenclature system.
func OptITISHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("ITIS Host", s) {
			c.Authority.ITISHost = s
		}
	}
}

// OptWikidataHost sets the base URL of the knowledge-graph endpoint.
func OptWikidataHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Wikidata Host", s) {
			c.Authority.WikidataHost = s
		}
	}
}

// OptDOIHost sets the base URL of the citation resolver.
func OptDOIHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("DOI Host", s) {
			c.Authority.DOIHost = s
		}
	}
}

// OptMapHost sets the base URL of the static map renderer.
func OptMapHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Map Host", s) {
			c.Authority.MapHost = s
		}
	}
}

// OptWithCache sets whether authority responses are cached on disk.
// Uses pointer to distinguish between unset (nil) and false.
func OptWithCache(b *bool) Option {
	return func(c *Config) {
		if b != nil {
			c.Authority.WithCache = b
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config, cache, data and log
// locations. Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
