// fetch-engine clones stellarium-web-engine into extern/stellarium and
// prints the manual build steps. The engine is fetched and built outside
// this repository; skyserver only serves the build output.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const engineRepo = "https://github.com/Stellarium/stellarium-web-engine.git"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	externDir := filepath.Join(wd, "extern")
	if _, err := os.Stat(externDir); os.IsNotExist(err) {
		fmt.Printf("Creating extern directory at: %s\n", externDir)
		if err := os.MkdirAll(externDir, 0o755); err != nil {
			return err
		}
	}

	target := filepath.Join(externDir, "stellarium")
	if _, err := os.Stat(target); err == nil {
		fmt.Printf("stellarium-web-engine already exists at: %s\n", target)
		fmt.Println("To re-fetch, remove the directory first:")
		fmt.Printf("  rm -rf %s\n", target)
		return errors.New("target directory exists")
	}

	if _, err := exec.LookPath("git"); err != nil {
		return errors.New("git is not installed or not in PATH")
	}

	fmt.Println("Cloning stellarium-web-engine...")
	fmt.Printf("  Target: %s\n\n", target)

	cmd := exec.Command("git", "clone", engineRepo, target)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cloning repository: %w", err)
	}

	fmt.Println()
	fmt.Println("stellarium-web-engine cloned successfully!")
	fmt.Println()
	fmt.Println("Next steps - build the WebAssembly engine:")
	fmt.Println()
	fmt.Println("  1. Install the Emscripten SDK:")
	fmt.Println("     https://emscripten.org/docs/getting_started/downloads.html")
	fmt.Println()
	fmt.Println("  2. Install SCons (pip install scons)")
	fmt.Println()
	fmt.Println("  3. Build:")
	fmt.Printf("     cd %s\n", target)
	fmt.Println("     source /path/to/emsdk/emsdk_env.sh")
	fmt.Println("     make js")
	fmt.Println()
	fmt.Println("The build will create:")
	fmt.Printf("  %s\n", filepath.Join(target, "build", "stellarium-web-engine.js"))
	fmt.Printf("  %s\n", filepath.Join(target, "build", "stellarium-web-engine.wasm"))
	return nil
}
