package engine

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is looked up inside a build directory.
const ManifestFileName = "manifest.yaml"

// Manifest describes one engine build. It is optional: build pipelines
// that produce the conventional file names need no manifest, but one can
// rename the outputs or record provenance.
type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Script  string `yaml:"script"`
	Binary  string `yaml:"binary"`
}

// LoadManifest reads manifest.yaml from a build directory. A missing
// manifest returns (nil, nil); a present but unreadable one is an error.
func LoadManifest(buildDir string) (*Manifest, error) {
	path := filepath.Join(buildDir, ManifestFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ManifestParseError{Path: path, Err: err}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestParseError{Path: path, Err: err}
	}
	return &m, nil
}

// apply overrides the default file names from a manifest.
func (m *Manifest) apply(a *Assets) {
	if m == nil {
		return
	}
	if m.Script != "" {
		a.ScriptFile = m.Script
	}
	if m.Binary != "" {
		a.BinaryFile = m.Binary
	}
}
