package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	s = c.Sheet.URL
	if s != "" {
		res = append(res, OptSheetURL(s))
	}
	s = c.Sheet.Token
	if s != "" {
		res = append(res, OptSheetToken(s))
	}
	s = c.Authority.GBIFHost
	if s != "" {
		res = append(res, OptGBIFHost(s))
	}
	s = c.Authority.EOLHost
	if s != "" {
		res = append(res, OptEOLHost(s))
	}
	s = c.Authority.COLHost
	if s != "" {
		res = append(res, OptCOLHost(s))
	}
	s = c.Authority.ITISHost
	if s != "" {
		res = append(res, OptITISHost(s))
	}
	s = c.Authority.WikidataHost
	if s != "" {
		res = append(res, OptWikidataHost(s))
	}
	s = c.Authority.DOIHost
	if s != "" {
		res = append(res, OptDOIHost(s))
	}
	s = c.Authority.MapHost
	if s != "" {
		res = append(res, OptMapHost(s))
	}
	if c.Authority.WithCache != nil {
		res = append(res, OptWithCache(c.Authority.WithCache))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	} else {
		gn.Warn(
			"<em>%s</em> does not support '%s' as a value. "+
				"Valid values are: \n%s\nIgnoring...",
			[]string{name, val, strings.Join(lines, "\n")},
		)
		return false
	}
}
