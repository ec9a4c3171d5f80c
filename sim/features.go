package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Features carries the run configuration knobs.
type Features struct {
	// RunID is the output base name used when a simulation has no
	// explicit name.
	RunID string `yaml:"runid"`

	// SaveDir is the directory all output files go to.
	SaveDir string `yaml:"savedir"`

	// Clean moves data files from an earlier run aside instead of
	// refusing to start.
	Clean bool `yaml:"clean"`

	// Restart resumes from the restart snapshot instead of refusing to
	// start.
	Restart bool `yaml:"restart"`
}

// DefaultFeatures returns the stock configuration.
func DefaultFeatures() Features {
	return Features{
		RunID:   "nmag_simulation",
		SaveDir: ".",
	}
}

// LoadFeatures reads a YAML configuration file over the defaults;
// missing keys keep their default values.
func LoadFeatures(path string) (Features, error) {
	f := DefaultFeatures()
	data, err := os.ReadFile(path)
	if err != nil {
		return Features{}, fmt.Errorf("sim: read features: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Features{}, fmt.Errorf("sim: parse features %s: %w", path, err)
	}

	return f, nil
}
