// Package widget owns the lifecycle of one embedded planetarium instance:
// it mints the instance identifier, boots the engine in the scripting
// host, polls for readiness, and forwards validated observer intents to
// the bridge.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/astriolab/skywidget/internal/astro"
	"github.com/astriolab/skywidget/internal/bridge"
	"github.com/astriolab/skywidget/internal/engine"
	"github.com/astriolab/skywidget/internal/script"
	"github.com/astriolab/skywidget/pkg/protocol"
)

// DefaultPollInterval is how often the readiness flag is checked after
// the init payload has been dispatched.
const DefaultPollInterval = 500 * time.Millisecond

// ErrPollDeadline is returned by WaitReady when a bounded poll policy
// gave up before the engine reported ready.
var ErrPollDeadline = fmt.Errorf("engine did not become ready within the poll budget")

// ErrAlreadyMounted is returned by Mount on a second call.
var ErrAlreadyMounted = fmt.Errorf("widget already mounted")

// Options configures a Widget. The zero value is usable.
type Options struct {
	// Display receives UI-facing side effects. May be nil.
	Display Display

	// OnReady runs once, from the poll goroutine, when the engine
	// becomes ready. May be nil.
	OnReady func(*Widget)

	// PollInterval between readiness checks. Defaults to
	// DefaultPollInterval.
	PollInterval time.Duration

	// PollMaxAttempts bounds the readiness poll. Zero means retry
	// forever, which matches the engine's own assumption that
	// initialization eventually completes but leaks the poll goroutine
	// if it never does.
	PollMaxAttempts int

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger

	// now is injectable for tests.
	now func() time.Time
}

// Widget is the coordinator for one engine instance.
type Widget struct {
	id       string
	canvasID string
	mounted  *engine.Mounted
	host     bridge.ScriptHost
	bridge   *bridge.Bridge
	display  Display
	onReady  func(*Widget)
	logger   *zap.Logger

	pollInterval time.Duration
	pollMax      int
	now          func() time.Time

	mu         sync.Mutex
	state      State
	phase      Phase
	cancelPoll context.CancelFunc

	done chan struct{} // closed on Ready or PollFailed
}

// New creates an unmounted widget bound to a scripting host and a mounted
// engine asset set. The engine assets are passed explicitly; there is no
// ambient configuration.
func New(host bridge.ScriptHost, mounted *engine.Mounted, opts Options) *Widget {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.now == nil {
		opts.now = time.Now
	}

	u := uuid.New()
	id := fmt.Sprintf("stel_%x", u[:4])

	w := &Widget{
		id:           id,
		canvasID:     protocol.CanvasID(id),
		mounted:      mounted,
		host:         host,
		display:      opts.Display,
		onReady:      opts.OnReady,
		pollInterval: opts.PollInterval,
		pollMax:      opts.PollMaxAttempts,
		now:          opts.now,
		state:        defaultState(opts.now),
		phase:        Uninitialized,
		done:         make(chan struct{}),
		logger: opts.Logger.With(
			zap.String("component", "widget"),
			zap.String("instance_id", id),
		),
	}
	w.bridge = bridge.New(id, host, w.isReady, opts.Logger)
	return w
}

// ID returns the process-unique instance identifier.
func (w *Widget) ID() string { return w.id }

// CanvasID returns the DOM id of the render canvas.
func (w *Widget) CanvasID() string { return w.canvasID }

// State returns a snapshot of the observer state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Phase returns the current lifecycle phase.
func (w *Widget) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Widget) isReady() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase == Ready
}

// InitPayload returns the record dispatched to boot this instance.
func (w *Widget) InitPayload() protocol.InitPayload {
	w.mu.Lock()
	defer w.mu.Unlock()
	return protocol.InitPayload{
		InstanceID:      w.id,
		CanvasID:        w.canvasID,
		Latitude:        w.state.Latitude,
		Longitude:       w.state.Longitude,
		EngineScriptURL: w.mounted.ScriptURL,
		EngineBinaryURL: w.mounted.BinaryURL,
		DataDirURL:      w.mounted.DataURL,
	}
}

// Mount dispatches the init payload and starts the readiness poll.
// The init dispatch bypasses the bridge's readiness gate: it is what
// makes the engine ready in the first place.
func (w *Widget) Mount(ctx context.Context) error {
	w.mu.Lock()
	if w.phase != Uninitialized {
		w.mu.Unlock()
		return ErrAlreadyMounted
	}
	w.phase = Loaded
	pollCtx, cancel := context.WithCancel(context.Background())
	w.cancelPoll = cancel
	w.mu.Unlock()

	payload, err := json.Marshal(w.InitPayload())
	if err != nil {
		return fmt.Errorf("encode init payload: %w", err)
	}

	if err := w.host.Exec(ctx, fmt.Sprintf("initStellariumWidget(%s);", payload)); err != nil {
		return fmt.Errorf("dispatch init payload: %w", err)
	}

	if w.display != nil {
		w.display.ShowStatus(Loaded)
	}

	w.logger.Info("Widget mounted, polling for engine readiness",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("poll_max_attempts", w.pollMax),
	)

	go w.pollLoop(pollCtx)
	return nil
}

// pollLoop checks the readiness flag until it flips, the attempt budget
// runs out, or the widget is closed. Individual poll failures are
// swallowed; the next tick tries again.
func (w *Widget) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		attempts++
		if w.pollOnce(ctx) {
			return
		}

		if w.pollMax > 0 && attempts >= w.pollMax {
			w.giveUp(attempts)
			return
		}
	}
}

// pollOnce performs a single readiness check. It reports true when the
// widget has reached a terminal phase and polling should stop. Calling
// it after the widget is already Ready is a no-op.
func (w *Widget) pollOnce(ctx context.Context) bool {
	w.mu.Lock()
	if w.phase == Ready || w.phase == PollFailed {
		w.mu.Unlock()
		return true
	}
	w.mu.Unlock()

	if !w.bridge.IsReady(ctx) {
		return false
	}

	w.mu.Lock()
	if w.phase != Loaded {
		w.mu.Unlock()
		return true
	}
	w.phase = Ready
	cancel := w.cancelPoll
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	close(w.done)

	if w.display != nil {
		w.display.ShowStatus(Ready)
	}
	w.logger.Info("Engine ready")

	if w.onReady != nil {
		w.onReady(w)
	}
	return true
}

func (w *Widget) giveUp(attempts int) {
	w.mu.Lock()
	if w.phase != Loaded {
		w.mu.Unlock()
		return
	}
	w.phase = PollFailed
	w.mu.Unlock()

	close(w.done)

	if w.display != nil {
		w.display.ShowStatus(PollFailed)
	}
	w.logger.Warn("Giving up on engine readiness",
		zap.Int("attempts", attempts),
	)
}

// WaitReady blocks until the engine is ready, the poll policy gives up,
// or the context is canceled.
func (w *Widget) WaitReady(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
	}
	if w.Phase() != Ready {
		return ErrPollDeadline
	}
	return nil
}

// Close stops the readiness poll. It does not tear down the browser-side
// engine.
func (w *Widget) Close() {
	w.mu.Lock()
	cancel := w.cancelPoll
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// SetLocation clamps and stores the observer's coordinates, then forwards
// them to the engine. Effect order: clamp, store, display, dispatch.
func (w *Widget) SetLocation(ctx context.Context, lat, lon, alt float64) bridge.CommandOutcome {
	w.mu.Lock()
	w.state.setLocation(lat, lon, alt)
	clampedLat, clampedLon := w.state.Latitude, w.state.Longitude
	w.mu.Unlock()

	if w.display != nil {
		w.display.ShowLocation(clampedLat, clampedLon)
	}
	return w.bridge.SetLocation(ctx, clampedLat, clampedLon)
}

// SetDateTime normalizes the instant to UTC, stores it, and forwards the
// engine-native MJD representation.
func (w *Widget) SetDateTime(ctx context.Context, t time.Time) bridge.CommandOutcome {
	t = t.UTC()

	w.mu.Lock()
	w.state.Time = t
	w.mu.Unlock()

	return w.bridge.SetDateTime(ctx, astro.TimeToMJD(t))
}

// SetTimeNow sets the observation clock to the current instant.
func (w *Widget) SetTimeNow(ctx context.Context) bridge.CommandOutcome {
	return w.SetDateTime(ctx, w.now())
}

// AdjustTime shifts the stored observation time by a delta and re-applies
// it.
func (w *Widget) AdjustTime(ctx context.Context, hours, days int) bridge.CommandOutcome {
	w.mu.Lock()
	current := w.state.Time
	w.mu.Unlock()

	return w.SetDateTime(ctx, current.Add(time.Duration(hours)*time.Hour+time.Duration(days)*24*time.Hour))
}

// LookAt centers the view on a named object, e.g. "NAME Polaris".
func (w *Widget) LookAt(ctx context.Context, name string) bridge.CommandOutcome {
	return w.bridge.LookAt(ctx, name)
}

// SetFieldOfView stores and applies the camera field of view in degrees.
func (w *Widget) SetFieldOfView(ctx context.Context, deg float64) bridge.CommandOutcome {
	w.mu.Lock()
	w.state.FieldOfView = deg
	w.mu.Unlock()

	return w.bridge.SetFieldOfView(ctx, deg)
}

// SetLayerVisible toggles one of the engine's visual layers.
func (w *Widget) SetLayerVisible(ctx context.Context, layer script.Layer, visible bool) bridge.CommandOutcome {
	return w.bridge.SetLayerVisible(ctx, layer, visible)
}

// ObjectAltitude returns the named object's altitude in (-180, 180]
// degrees, or ok=false when it cannot be determined.
func (w *Widget) ObjectAltitude(ctx context.Context, name string) (float64, bool) {
	return w.bridge.ObjectAltitude(ctx, name)
}

// ObjectAzimuth returns the named object's azimuth in [0, 360) degrees,
// or ok=false when it cannot be determined.
func (w *Widget) ObjectAzimuth(ctx context.Context, name string) (float64, bool) {
	return w.bridge.ObjectAzimuth(ctx, name)
}
