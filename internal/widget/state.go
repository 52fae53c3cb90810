package widget

import (
	"time"

	"github.com/astriolab/skywidget/internal/astro"
)

// Default observer: Villanova, PA.
const (
	DefaultLatitude    = 40.03784
	DefaultLongitude   = -75.34238
	DefaultAltitude    = 142.0 // meters above sea level
	DefaultFieldOfView = 60.0  // degrees
)

// State holds one widget's observer parameters. It mirrors what the
// engine was last told; there is no read-back confirmation, the two
// converge as commands land.
type State struct {
	Latitude    float64
	Longitude   float64
	Altitude    float64
	Time        time.Time
	FieldOfView float64
}

func defaultState(now func() time.Time) State {
	return State{
		Latitude:    DefaultLatitude,
		Longitude:   DefaultLongitude,
		Altitude:    DefaultAltitude,
		Time:        now().UTC(),
		FieldOfView: DefaultFieldOfView,
	}
}

// setLocation clamps and stores coordinates. Altitude is stored as given.
func (s *State) setLocation(lat, lon, alt float64) {
	s.Latitude = astro.ClampLatitude(lat)
	s.Longitude = astro.ClampLongitude(lon)
	s.Altitude = alt
}

// Phase is the widget lifecycle state.
type Phase int

const (
	// Uninitialized: constructed, nothing dispatched yet.
	Uninitialized Phase = iota
	// Loaded: init payload dispatched, readiness poll running.
	Loaded
	// Ready: the engine reported ready. Terminal.
	Ready
	// PollFailed: the bounded poll policy gave up. Terminal.
	PollFailed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Loaded:
		return "loaded"
	case Ready:
		return "ready"
	case PollFailed:
		return "poll_failed"
	default:
		return "unknown"
	}
}

// Display receives UI-facing side effects of widget mutations. All
// methods are called after local state is updated and before the command
// is dispatched. Implementations belong to the UI layer; a nil Display
// is valid and means no UI binding.
type Display interface {
	// ShowLocation reflects clamped observer coordinates.
	ShowLocation(lat, lon float64)
	// ShowStatus reflects the lifecycle phase.
	ShowStatus(phase Phase)
}
