package engine

import (
	"context"
	"os"
	"time"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
)

// Verifier compile-checks the engine's Wasm payload before it is served.
// The engine only ever runs in a browser; compiling it here catches
// truncated downloads and corrupt builds at mount time instead of as a
// blank canvas on the client.
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier creates a payload verifier.
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{
		logger: logger.With(zap.String("component", "engine-verifier")),
	}
}

// VerifyPayload decodes and validates the Wasm binary at path. The
// interpreter runtime is used so verification does not pay for native
// code generation.
func (v *Verifier) VerifyPayload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &PayloadVerifyError{Path: path, Err: err}
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	start := time.Now()
	compiled, err := r.CompileModule(ctx, data)
	if err != nil {
		return &PayloadVerifyError{Path: path, Err: err}
	}
	defer compiled.Close(ctx)

	v.logger.Info("Engine payload verified",
		zap.String("path", path),
		zap.Int("size_bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
