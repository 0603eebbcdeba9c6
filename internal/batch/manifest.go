package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes one batch run: which ecosystem and package-name
// list to score, and which partition of it this invocation covers.
// Grounded on docs/checks/reader.go's embed-and-unmarshal shape, moved
// here from an embedded asset to a file on disk since a manifest
// describes a specific corpus run rather than a static catalog.
type Manifest struct {
	Ecosystem     string `yaml:"ecosystem"`
	InputFile     string `yaml:"input_file"`
	NumPartitions int    `yaml:"num_partitions"`
	Partition     int    `yaml:"partition"`
	Workers       int    `yaml:"workers,omitempty"`
}

// LoadManifest reads and parses a YAML batch manifest from path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("batch: reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("batch: parsing manifest %s: %w", path, err)
	}
	return m, nil
}
