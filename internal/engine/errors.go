package engine

import "fmt"

// AssetNotFoundError occurs when a required engine file or directory is
// missing at mount time. It carries remediation text for the operator.
type AssetNotFoundError struct {
	Path string
	Hint string
}

func (e *AssetNotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("engine asset not found at '%s': %s", e.Path, e.Hint)
	}
	return fmt.Sprintf("engine asset not found at '%s'", e.Path)
}

// DiscoveryError occurs when no extern/stellarium checkout is found in
// any parent of the start directory.
type DiscoveryError struct {
	StartDir string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf(
		"could not discover an extern/stellarium checkout above '%s'; provide explicit build and data directories",
		e.StartDir)
}

// ManifestParseError occurs when a build directory carries a manifest
// that cannot be read as valid YAML.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse engine manifest at '%s': %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// PayloadVerifyError occurs when the engine's Wasm binary fails the
// integrity compile check.
type PayloadVerifyError struct {
	Path string
	Err  error
}

func (e *PayloadVerifyError) Error() string {
	return fmt.Sprintf("engine binary at '%s' failed verification: %v", e.Path, e.Err)
}

func (e *PayloadVerifyError) Unwrap() error {
	return e.Err
}
