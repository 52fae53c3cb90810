package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// writeAssets lays out a minimal engine build under a temp dir.
func writeAssets(t *testing.T) Assets {
	t.Helper()
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	dataDir := filepath.Join(root, "data")
	for _, dir := range []string{buildDir, dataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{ScriptFileName, BinaryFileName} {
		if err := os.WriteFile(filepath.Join(buildDir, name), []byte("stub"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return Assets{BuildDir: buildDir, DataDir: dataDir}
}

func TestRegistryMount(t *testing.T) {
	r := NewRegistry("/swe", nil, zap.NewNop())
	assets := writeAssets(t)

	mounted, err := r.Mount(context.Background(), assets)
	if err != nil {
		t.Fatalf("Mount() failed: %v", err)
	}

	if mounted.ScriptURL != "/swe/build/stellarium-web-engine.js" {
		t.Errorf("script URL: got %s", mounted.ScriptURL)
	}
	if mounted.BinaryURL != "/swe/build/stellarium-web-engine.wasm" {
		t.Errorf("binary URL: got %s", mounted.BinaryURL)
	}
	if mounted.DataURL != "/swe/data/" {
		t.Errorf("data URL: got %s", mounted.DataURL)
	}
}

func TestRegistryFirstMountWins(t *testing.T) {
	r := NewRegistry("/swe", nil, zap.NewNop())

	first, err := r.Mount(context.Background(), writeAssets(t))
	if err != nil {
		t.Fatalf("first Mount() failed: %v", err)
	}

	// A second mount with different assets must return the first,
	// unchanged.
	second, err := r.Mount(context.Background(), writeAssets(t))
	if err != nil {
		t.Fatalf("second Mount() failed: %v", err)
	}

	if first != second {
		t.Fatal("second Mount() must return the active mount")
	}
	if second.Assets.BuildDir != first.Assets.BuildDir {
		t.Errorf("active mount changed: got %s, want %s",
			second.Assets.BuildDir, first.Assets.BuildDir)
	}
}

func TestRegistryMountMissingScript(t *testing.T) {
	r := NewRegistry("/swe", nil, zap.NewNop())
	assets := writeAssets(t)
	if err := os.Remove(assets.ScriptPath()); err != nil {
		t.Fatal(err)
	}

	_, err := r.Mount(context.Background(), assets)
	if err == nil {
		t.Fatal("Mount() must fail when the engine script is missing")
	}
	if _, ok := err.(*AssetNotFoundError); !ok {
		t.Errorf("expected AssetNotFoundError, got %T", err)
	}

	// A failed mount leaves the registry empty.
	if _, active := r.Active(); active {
		t.Error("registry must stay empty after a failed mount")
	}
}

func TestRegistryActive(t *testing.T) {
	r := NewRegistry("/swe", nil, zap.NewNop())

	if _, ok := r.Active(); ok {
		t.Fatal("Active() must report false before any mount")
	}

	mounted, err := r.Mount(context.Background(), writeAssets(t))
	if err != nil {
		t.Fatal(err)
	}

	active, ok := r.Active()
	if !ok || active != mounted {
		t.Error("Active() must return the mounted asset set")
	}
}

func TestRegistryManifestOverridesFileNames(t *testing.T) {
	assets := writeAssets(t)

	// Rename the outputs and describe them in a manifest.
	if err := os.Rename(assets.ScriptPath(), filepath.Join(assets.BuildDir, "engine.js")); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(assets.BinaryPath(), filepath.Join(assets.BuildDir, "engine.wasm")); err != nil {
		t.Fatal(err)
	}
	manifest := "name: stellarium-web-engine\nversion: 0.1.0\nscript: engine.js\nbinary: engine.wasm\n"
	if err := os.WriteFile(filepath.Join(assets.BuildDir, ManifestFileName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry("/swe", nil, zap.NewNop())
	mounted, err := r.Mount(context.Background(), assets)
	if err != nil {
		t.Fatalf("Mount() failed: %v", err)
	}
	if mounted.ScriptURL != "/swe/build/engine.js" {
		t.Errorf("manifest script name not applied: got %s", mounted.ScriptURL)
	}
}

func TestRegistryInvalidManifest(t *testing.T) {
	assets := writeAssets(t)
	if err := os.WriteFile(filepath.Join(assets.BuildDir, ManifestFileName), []byte("{unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry("/swe", nil, zap.NewNop())
	_, err := r.Mount(context.Background(), assets)
	if err == nil {
		t.Fatal("Mount() must fail on an unparsable manifest")
	}
	if _, ok := err.(*ManifestParseError); !ok {
		t.Errorf("expected ManifestParseError, got %T", err)
	}
}
