package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "spimeta"
	// EMLSystem identifies the id namespace written into produced documents.
	EMLSystem = "SPI-Birds"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/spimeta by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/spimeta by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/spimeta/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// DataDir returns the directory where reference tables and conversion
// results live. Returns ~/.local/share/spimeta/data by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "data")
}

// ArchiveDir returns the directory where archived copies of the
// reference tables are written before every merge.
func ArchiveDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "archive")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/spimeta/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
