package script

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/astriolab/skywidget/pkg/protocol"
)

// Renderer turns command and query descriptors into script fragments
// addressed at one instance's engine handle.
type Renderer struct {
	handle string
	ready  string
}

// NewRenderer creates a renderer for the given instance identifier.
func NewRenderer(instanceID string) *Renderer {
	return &Renderer{
		handle: protocol.EngineHandle(instanceID),
		ready:  protocol.ReadyFlag(instanceID),
	}
}

// Command renders a fire-and-forget fragment. The fragment guards on the
// engine handle, so dispatching before the engine exists is a no-op in
// the browser rather than a script error.
func (r *Renderer) Command(cmd Command) string {
	var body string
	switch c := cmd.(type) {
	case SetLocation:
		body = fmt.Sprintf(
			"stel.observer.latitude = %s * stel.D2R;\nstel.observer.longitude = %s * stel.D2R;",
			num(c.Latitude), num(c.Longitude))
	case SetDateTime:
		body = fmt.Sprintf("stel.observer.utc = %s;", num(c.MJD))
	case LookAt:
		body = fmt.Sprintf(
			"var obj = stel.getObj(%s);\nif (obj) {\n  stel.core.selection = obj;\n  stel.pointAndLock(obj);\n}",
			str(c.Name))
	case SetFieldOfView:
		body = fmt.Sprintf("stel.core.fov = %s * stel.D2R;", num(c.Degrees))
	case SetLayerVisible:
		body = fmt.Sprintf("stel.%s = %s;", c.Layer.propertyPath(), strconv.FormatBool(c.Visible))
	default:
		return ""
	}

	return fmt.Sprintf(
		"(function() {\nvar stel = window.%s;\nif (!stel) return;\n%s\n})();",
		r.handle, body)
}

// Query renders an expression fragment that evaluates to the query's
// value, or to null when the handle or the named object is absent.
func (r *Renderer) Query(q Query) string {
	switch qu := q.(type) {
	case ObjectAltitude:
		return r.azAltExpr(qu.Name, 1)
	case ObjectAzimuth:
		return r.azAltExpr(qu.Name, 0)
	case EngineReady:
		return fmt.Sprintf("window.%s === true", r.ready)
	default:
		return "null"
	}
}

// azAltExpr renders the observed-frame angle pipeline: resolve the object,
// take its position vector for the current observer, rotate it from the
// catalog frame (ICRF) into the observer's horizontal frame, convert to
// spherical angles, and positive-normalize. Component 0 is azimuth,
// component 1 is altitude. The result is raw [0, 360) degrees.
func (r *Renderer) azAltExpr(name string, component int) string {
	return fmt.Sprintf(`(function() {
var stel = window.%s;
if (!stel) return null;
var obj = stel.getObj(%s);
if (!obj) return null;
var pvo = obj.getInfo('pvo', stel.observer);
if (!pvo) return null;
var observed = stel.convertFrame(stel.observer, 'ICRF', 'OBSERVED', pvo[0]);
var azalt = stel.c2s(observed);
return stel.anp(azalt[%d]) / stel.D2R;
})()`, r.handle, str(name), component)
}

// num renders a float in its shortest exact literal form.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// str renders caller-supplied free text as a script string literal.
// JSON encoding is a valid script string encoding and closes off
// fragment injection through object names.
func str(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail; keep the fragment valid anyway.
		return `""`
	}
	return string(b)
}
