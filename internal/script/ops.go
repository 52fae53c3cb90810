// Package script builds the browser-script fragments that drive one
// engine instance. Every operation the bridge can perform is a tagged
// descriptor here, and a single renderer turns descriptors into script
// text. Keeping generation in one place keeps the escaping rules and the
// engine's property paths auditable.
package script

// Command is a fire-and-forget operation against the engine handle.
type Command interface {
	isCommand()
}

// SetLocation moves the engine's observer. Degrees; the engine stores
// radians, so the fragment multiplies by its D2R constant.
type SetLocation struct {
	Latitude  float64
	Longitude float64
}

// SetDateTime sets the observation clock. MJD is the engine-native
// representation (see the astro package).
type SetDateTime struct {
	MJD float64
}

// LookAt centers and locks the view on a named object, e.g.
// "NAME Polaris". The name is resolved by the engine's own catalog.
type LookAt struct {
	Name string
}

// SetFieldOfView sets the camera field of view in degrees.
type SetFieldOfView struct {
	Degrees float64
}

// SetLayerVisible toggles one of the engine's visual layers.
type SetLayerVisible struct {
	Layer   Layer
	Visible bool
}

func (SetLocation) isCommand()     {}
func (SetDateTime) isCommand()     {}
func (LookAt) isCommand()          {}
func (SetFieldOfView) isCommand()  {}
func (SetLayerVisible) isCommand() {}

// Query is an operation that evaluates to a value in the browser.
type Query interface {
	isQuery()
}

// ObjectAltitude evaluates to the named object's altitude above the
// horizon, in raw [0, 360) degrees. The (-180, 180] fold happens on the
// Go side.
type ObjectAltitude struct {
	Name string
}

// ObjectAzimuth evaluates to the named object's azimuth in [0, 360)
// degrees, 0 = north, 90 = east.
type ObjectAzimuth struct {
	Name string
}

// EngineReady evaluates to true once the engine finished initializing.
type EngineReady struct{}

func (ObjectAltitude) isQuery() {}
func (ObjectAzimuth) isQuery()  {}
func (EngineReady) isQuery()    {}

// Layer identifies one of the engine's toggleable visual layers.
type Layer int

const (
	ConstellationLines Layer = iota
	ConstellationLabels
	Atmosphere
	Landscape
	AzimuthalGrid
	EquatorialGrid
	MilkyWay
)

// propertyPath maps a layer to its visibility property on the engine core.
func (l Layer) propertyPath() string {
	switch l {
	case ConstellationLines:
		return "core.constellations.lines_visible"
	case ConstellationLabels:
		return "core.constellations.labels_visible"
	case Atmosphere:
		return "core.atmosphere.visible"
	case Landscape:
		return "core.landscapes.visible"
	case AzimuthalGrid:
		return "core.lines.azimuthal.visible"
	case EquatorialGrid:
		return "core.lines.equatorial.visible"
	case MilkyWay:
		return "core.milkyway.visible"
	default:
		return ""
	}
}

func (l Layer) String() string {
	switch l {
	case ConstellationLines:
		return "constellation_lines"
	case ConstellationLabels:
		return "constellation_labels"
	case Atmosphere:
		return "atmosphere"
	case Landscape:
		return "landscape"
	case AzimuthalGrid:
		return "azimuthal_grid"
	case EquatorialGrid:
		return "equatorial_grid"
	case MilkyWay:
		return "milkyway"
	default:
		return "unknown"
	}
}
