package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Mounted is an active engine asset set with its resolved URLs. URLs are
// frozen for the lifetime of the process; widgets hold a *Mounted and
// never re-resolve.
type Mounted struct {
	Assets    Assets
	URLPrefix string

	ScriptURL  string
	BinaryURL  string
	DataURL    string
	RuntimeURL string // the widget client runtime script
}

// Registry holds at most one mounted engine asset set per process. It is
// constructed once at startup and passed by reference to everything that
// needs the active mount; there is no package-level state.
//
// The single-mount rule keeps the heavy static assets under one URL
// namespace instead of re-serving them per widget.
type Registry struct {
	urlPrefix string
	verifier  *Verifier
	logger    *zap.Logger

	mu     sync.Mutex
	active *Mounted
}

// NewRegistry creates a registry serving assets under urlPrefix.
// verifier may be nil to skip payload verification.
func NewRegistry(urlPrefix string, verifier *Verifier, logger *zap.Logger) *Registry {
	return &Registry{
		urlPrefix: urlPrefix,
		verifier:  verifier,
		logger:    logger.With(zap.String("component", "engine-registry")),
	}
}

// Mount validates an asset set and makes it the active mount. First
// mount wins: if a mount is already active, it is returned unchanged and
// the new assets are ignored.
func (r *Registry) Mount(ctx context.Context, assets Assets) (*Mounted, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		r.logger.Debug("Reusing active engine mount",
			zap.String("build_dir", r.active.Assets.BuildDir),
		)
		return r.active, nil
	}

	manifest, err := LoadManifest(assets.BuildDir)
	if err != nil {
		return nil, err
	}
	manifest.apply(&assets)

	if err := assets.Validate(); err != nil {
		return nil, err
	}

	if r.verifier != nil {
		if err := r.verifier.VerifyPayload(ctx, assets.BinaryPath()); err != nil {
			return nil, err
		}
	}

	r.active = &Mounted{
		Assets:    assets,
		URLPrefix: r.urlPrefix,

		ScriptURL:  fmt.Sprintf("%s/build/%s", r.urlPrefix, assets.scriptName()),
		BinaryURL:  fmt.Sprintf("%s/build/%s", r.urlPrefix, assets.binaryName()),
		DataURL:    fmt.Sprintf("%s/data/", r.urlPrefix),
		RuntimeURL: fmt.Sprintf("%s/assets/skywidget.js", r.urlPrefix),
	}

	r.logger.Info("Engine assets mounted",
		zap.String("build_dir", assets.BuildDir),
		zap.String("data_dir", assets.DataDir),
		zap.String("url_prefix", r.urlPrefix),
	)

	return r.active, nil
}

// Active returns the active mount, if any.
func (r *Registry) Active() (*Mounted, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != nil
}
