// Package iofs prepares the file system layout of the application and
// gives access to its embedded data files: the default configuration,
// the form column mapping, the habitat catalogue, the ringing-code
// registry and the country table.
package iofs

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"os"

	"github.com/SPI-Birds/metadata/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed column_mapping.yaml
var columnMappingYAML []byte

//go:embed habitats.yaml
var habitatsYAML []byte

//go:embed euring_codes.csv
var euringCSV []byte

//go:embed countries.csv
var countriesCSV []byte

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
		config.DataDir(homeDir),
		config.ArchiveDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ColumnMapping returns the embedded form-label → semantic-field mapping.
func ColumnMapping() (map[string]string, error) {
	res := make(map[string]string)
	if err := yaml.Unmarshal(columnMappingYAML, &res); err != nil {
		return nil, ReadFileError("column_mapping.yaml", err)
	}
	return res, nil
}

// Habitats describes the embedded habitat catalogue.
type Habitats struct {
	// ExceptionRoot is the single-character group whose children are not
	// hierarchical by prefix truncation.
	ExceptionRoot string `yaml:"exception_root"`
	// Groups maps top-level group codes to their names.
	Groups map[string]string `yaml:"groups"`
}

// HabitatCatalogue returns the embedded habitat classification.
func HabitatCatalogue() (*Habitats, error) {
	var res Habitats
	if err := yaml.Unmarshal(habitatsYAML, &res); err != nil {
		return nil, ReadFileError("habitats.yaml", err)
	}
	return &res, nil
}

// EuringTable returns the embedded ringing-code registry keyed by the
// current scientific name.
func EuringTable() (map[string]string, error) {
	rows, err := readCSV(euringCSV)
	if err != nil {
		return nil, ReadFileError("euring_codes.csv", err)
	}
	res := make(map[string]string, len(rows))
	for _, row := range rows {
		res[row[1]] = row[0]
	}
	return res, nil
}

// Countries returns the embedded country-name → ISO code table, in file
// order so substring fallbacks stay deterministic.
func Countries() ([][2]string, error) {
	rows, err := readCSV(countriesCSV)
	if err != nil {
		return nil, ReadFileError("countries.csv", err)
	}
	res := make([][2]string, 0, len(rows))
	for _, row := range rows {
		res = append(res, [2]string{row[0], row[1]})
	}
	return res, nil
}

// readCSV parses an embedded CSV file, skipping the header row.
func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	if _, err := r.Read(); err != nil && err != io.EOF {
		return nil, err
	}
	return r.ReadAll()
}
