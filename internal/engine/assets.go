// Package engine locates, validates, and mounts the pre-built
// stellarium-web-engine assets. The engine itself is opaque: this package
// never executes it, it only checks that the build output and sky data
// are present and serves their locations as frozen URLs.
package engine

import (
	"os"
	"path/filepath"
)

// Default file names inside a build directory.
const (
	ScriptFileName = "stellarium-web-engine.js"
	BinaryFileName = "stellarium-web-engine.wasm"
)

const fetchHint = "the engine must be fetched and built separately: run " +
	"`fetch-engine`, then `cd extern/stellarium && make js`"

// Assets is the on-disk location of one engine build.
type Assets struct {
	// BuildDir contains the engine script and its Wasm binary.
	BuildDir string
	// DataDir contains the sky data catalogs (stars, landscapes, ...).
	DataDir string
	// ScriptFile and BinaryFile override the default file names. Used
	// when a build manifest names different outputs.
	ScriptFile string
	BinaryFile string
}

func (a Assets) scriptName() string {
	if a.ScriptFile != "" {
		return a.ScriptFile
	}
	return ScriptFileName
}

func (a Assets) binaryName() string {
	if a.BinaryFile != "" {
		return a.BinaryFile
	}
	return BinaryFileName
}

// ScriptPath returns the path of the engine script.
func (a Assets) ScriptPath() string {
	return filepath.Join(a.BuildDir, a.scriptName())
}

// BinaryPath returns the path of the engine's Wasm payload.
func (a Assets) BinaryPath() string {
	return filepath.Join(a.BuildDir, a.binaryName())
}

// Validate checks that every required asset exists. Called at mount time;
// a failure here is fatal for the mount.
func (a Assets) Validate() error {
	if _, err := os.Stat(a.ScriptPath()); err != nil {
		return &AssetNotFoundError{Path: a.ScriptPath(), Hint: fetchHint}
	}
	if _, err := os.Stat(a.BinaryPath()); err != nil {
		return &AssetNotFoundError{Path: a.BinaryPath(), Hint: fetchHint}
	}
	info, err := os.Stat(a.DataDir)
	if err != nil || !info.IsDir() {
		return &AssetNotFoundError{Path: a.DataDir, Hint: "sky data directory is missing"}
	}
	return nil
}

// Discover walks parent directories of startDir looking for an
// extern/stellarium checkout and returns its conventional build and data
// locations.
func Discover(startDir string) (Assets, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Assets{}, err
	}

	for {
		candidate := filepath.Join(dir, "extern", "stellarium")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return Assets{
				BuildDir: filepath.Join(candidate, "build"),
				DataDir:  filepath.Join(candidate, "apps", "test-skydata"),
			}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Assets{}, &DiscoveryError{StartDir: startDir}
		}
		dir = parent
	}
}
