// Package ioconfig loads configuration from the config file and the
// environment. This is an impure package that handles file system and
// environment operations.
package ioconfig

import (
	"strings"

	"github.com/SPI-Birds/metadata/internal/iofs"
	"github.com/SPI-Birds/metadata/pkg/config"
	"github.com/spf13/viper"
)

// Load reads the config.yaml of the given home directory, with SPIMETA_*
// environment variables taking precedence over file values.
func Load(homeDir string) (*config.Config, error) {
	cfgPath := config.ConfigFilePath(homeDir)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err := v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are
	// allowed. These match the fields included in config.ToOptions() -
	// i.e., persistent configuration that can be stored in config.yaml.
	v.SetEnvPrefix("SPIMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Sheet configuration
	v.BindEnv("sheet.url", "SHEET_URL")
	v.BindEnv("sheet.token", "SHEET_TOKEN")

	// Authority configuration
	v.BindEnv("authority.gbif_host", "AUTHORITY_GBIF_HOST")
	v.BindEnv("authority.eol_host", "AUTHORITY_EOL_HOST")
	v.BindEnv("authority.col_host", "AUTHORITY_COL_HOST")
	v.BindEnv("authority.itis_host", "AUTHORITY_ITIS_HOST")
	v.BindEnv("authority.wikidata_host", "AUTHORITY_WIKIDATA_HOST")
	v.BindEnv("authority.doi_host", "AUTHORITY_DOI_HOST")
	v.BindEnv("authority.map_host", "AUTHORITY_MAP_HOST")
	v.BindEnv("authority.with_cache", "AUTHORITY_WITH_CACHE")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	v.AutomaticEnv()
}
