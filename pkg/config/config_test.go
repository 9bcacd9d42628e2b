package config_test

import (
	"path/filepath"
	"testing"

	"github.com/SPI-Birds/metadata/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "spimeta"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "spimeta"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "spimeta", "logs"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "spimeta", "data"),
		},
		{
			msg: "archive dir",
			fn:  config.ArchiveDir,
			res: filepath.Join(
				tempHome, ".local", "share", "spimeta", "data", "archive",
			),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "https://api.gbif.org/v1", cfg.Authority.GBIFHost)
		assert.Equal(t, "https://doi.org", cfg.Authority.DOIHost)
		require.NotNil(t, cfg.Authority.WithCache)
		assert.True(t, *cfg.Authority.WithCache)

		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.Empty(t, cfg.Sheet.URL)
		assert.Empty(t, cfg.HomeDir)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("applies valid options", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptSheetURL("https://example.org/export.csv"),
			config.OptGBIFHost("http://127.0.0.1:9001"),
			config.OptLogLevel("debug"),
		})
		assert.Equal(t, "https://example.org/export.csv", cfg.Sheet.URL)
		assert.Equal(t, "http://127.0.0.1:9001", cfg.Authority.GBIFHost)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("rejects invalid options, config stays valid", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptGBIFHost("  "),
			config.OptLogLevel("loud"),
			config.OptLogDestination("syslog"),
		})
		assert.Equal(t, "https://api.gbif.org/v1", cfg.Authority.GBIFHost)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)
	})
}

func TestToOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptSheetURL("https://example.org/export.csv"),
		config.OptHomeDir("/home/op"),
	})

	clone := config.New()
	clone.Update(cfg.ToOptions())

	assert.Equal(t, cfg.Sheet, clone.Sheet)
	assert.Equal(t, cfg.Authority, clone.Authority)
	assert.Equal(t, cfg.Log, clone.Log)
	// HomeDir is runtime-only and must not round-trip.
	assert.Empty(t, clone.HomeDir)
}
