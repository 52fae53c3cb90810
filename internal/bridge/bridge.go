// Package bridge translates typed engine operations into script fragments
// dispatched at one instance's global handle, and evaluates query
// expressions back into Go values.
//
// Commands are best-effort: they return a CommandOutcome, never an error.
// Queries are best-effort too: failures of any kind resolve to an absent
// value and a single warning log, never an error to the caller.
package bridge

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/astriolab/skywidget/internal/astro"
	"github.com/astriolab/skywidget/internal/script"
)

// Gate reports whether the engine behind the bridge is ready for
// commands. Commands dispatched while the gate is closed are dropped.
type Gate func() bool

// Bridge is the façade over one engine instance's scripting surface.
type Bridge struct {
	instanceID string
	host       ScriptHost
	renderer   *script.Renderer
	gate       Gate
	logger     *zap.Logger
}

// New creates a bridge for an instance. gate may be nil, in which case
// commands are always dispatched (the fragment-level handle guard still
// makes them no-ops in the browser before initialization).
func New(instanceID string, host ScriptHost, gate Gate, logger *zap.Logger) *Bridge {
	return &Bridge{
		instanceID: instanceID,
		host:       host,
		renderer:   script.NewRenderer(instanceID),
		gate:       gate,
		logger: logger.With(
			zap.String("component", "bridge"),
			zap.String("instance_id", instanceID),
		),
	}
}

// Command renders and dispatches a fire-and-forget command.
func (b *Bridge) Command(ctx context.Context, cmd script.Command) CommandOutcome {
	if b.gate != nil && !b.gate() {
		b.logger.Debug("Command dropped, engine not ready",
			zap.String("command", commandName(cmd)),
		)
		return dropped
	}

	if err := b.host.Exec(ctx, b.renderer.Command(cmd)); err != nil {
		b.logger.Warn("Command dispatch failed",
			zap.String("command", commandName(cmd)),
			zap.Error(err),
		)
		return failed(err)
	}

	return applied
}

// SetLocation sets the observer's coordinates in degrees.
func (b *Bridge) SetLocation(ctx context.Context, lat, lon float64) CommandOutcome {
	return b.Command(ctx, script.SetLocation{Latitude: lat, Longitude: lon})
}

// SetDateTime sets the observation clock to an engine-native MJD.
func (b *Bridge) SetDateTime(ctx context.Context, mjd float64) CommandOutcome {
	return b.Command(ctx, script.SetDateTime{MJD: mjd})
}

// LookAt centers the view on a named object.
func (b *Bridge) LookAt(ctx context.Context, name string) CommandOutcome {
	return b.Command(ctx, script.LookAt{Name: name})
}

// SetFieldOfView sets the camera field of view in degrees.
func (b *Bridge) SetFieldOfView(ctx context.Context, deg float64) CommandOutcome {
	return b.Command(ctx, script.SetFieldOfView{Degrees: deg})
}

// SetLayerVisible toggles a visual layer.
func (b *Bridge) SetLayerVisible(ctx context.Context, layer script.Layer, visible bool) CommandOutcome {
	return b.Command(ctx, script.SetLayerVisible{Layer: layer, Visible: visible})
}

// ObjectAltitude returns the named object's altitude above the horizon in
// (-180, 180] degrees. ok is false when the engine or the object is
// unavailable, or evaluation failed.
func (b *Bridge) ObjectAltitude(ctx context.Context, name string) (alt float64, ok bool) {
	raw, ok := b.evalFloat(ctx, script.ObjectAltitude{Name: name}, "object_altitude")
	if !ok {
		return 0, false
	}
	return astro.NormalizeAltitude(raw), true
}

// ObjectAzimuth returns the named object's azimuth in [0, 360) degrees,
// 0 = north, 90 = east.
func (b *Bridge) ObjectAzimuth(ctx context.Context, name string) (az float64, ok bool) {
	return b.evalFloat(ctx, script.ObjectAzimuth{Name: name}, "object_azimuth")
}

// IsReady reports whether the engine finished initializing. This query
// bypasses the gate since it is the readiness probe itself. Evaluation
// failures read as not ready.
func (b *Bridge) IsReady(ctx context.Context) bool {
	raw, err := b.host.Eval(ctx, b.renderer.Query(script.EngineReady{}))
	if err != nil {
		return false
	}
	var ready bool
	if err := json.Unmarshal(raw, &ready); err != nil {
		return false
	}
	return ready
}

// evalFloat evaluates a query expected to yield a number or null.
func (b *Bridge) evalFloat(ctx context.Context, q script.Query, name string) (float64, bool) {
	raw, err := b.host.Eval(ctx, b.renderer.Query(q))
	if err != nil {
		b.logger.Warn("Query evaluation failed",
			zap.String("query", name),
			zap.Error(err),
		)
		return 0, false
	}

	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		b.logger.Warn("Query returned undecodable result",
			zap.String("query", name),
			zap.ByteString("result", raw),
			zap.Error(err),
		)
		return 0, false
	}
	if v == nil {
		// The fragment resolves to null when the handle or the named
		// object is missing.
		b.logger.Warn("Query resolved to no value",
			zap.String("query", name),
		)
		return 0, false
	}
	return *v, true
}

func commandName(cmd script.Command) string {
	switch cmd.(type) {
	case script.SetLocation:
		return "set_location"
	case script.SetDateTime:
		return "set_datetime"
	case script.LookAt:
		return "look_at"
	case script.SetFieldOfView:
		return "set_fov"
	case script.SetLayerVisible:
		return "set_layer_visible"
	default:
		return "unknown"
	}
}
