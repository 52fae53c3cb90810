package script

import (
	"strings"
	"testing"
)

func TestCommandGuard(t *testing.T) {
	r := NewRenderer("stel_abc12345")

	cmds := []Command{
		SetLocation{Latitude: 40, Longitude: -75},
		SetDateTime{MJD: 60000.5},
		LookAt{Name: "NAME Polaris"},
		SetFieldOfView{Degrees: 60},
		SetLayerVisible{Layer: Atmosphere, Visible: true},
	}

	for _, cmd := range cmds {
		js := r.Command(cmd)
		if !strings.Contains(js, "window.stel_abc12345_stel") {
			t.Errorf("%T: fragment does not address the instance handle:\n%s", cmd, js)
		}
		if !strings.Contains(js, "if (!stel) return;") {
			t.Errorf("%T: fragment is missing the handle guard:\n%s", cmd, js)
		}
	}
}

func TestCommandSetLocation(t *testing.T) {
	r := NewRenderer("w1")
	js := r.Command(SetLocation{Latitude: 40.03784, Longitude: -75.34238})

	if !strings.Contains(js, "stel.observer.latitude = 40.03784 * stel.D2R;") {
		t.Errorf("latitude assignment missing:\n%s", js)
	}
	if !strings.Contains(js, "stel.observer.longitude = -75.34238 * stel.D2R;") {
		t.Errorf("longitude assignment missing:\n%s", js)
	}
}

func TestCommandLookAtEscapesName(t *testing.T) {
	r := NewRenderer("w1")

	// A hostile name must come out as an inert string literal: every
	// inner quote escaped, nothing closing the getObj call early.
	js := r.Command(LookAt{Name: `"); window.pwned = true; ("`})
	if !strings.Contains(js, `stel.getObj("\"); window.pwned = true; (\"")`) {
		t.Errorf("name not JSON-encoded:\n%s", js)
	}
	if strings.Contains(js, `stel.getObj("");`) {
		t.Errorf("object name broke out of the string literal:\n%s", js)
	}
}

func TestCommandLayerPaths(t *testing.T) {
	r := NewRenderer("w1")

	cases := []struct {
		layer Layer
		path  string
	}{
		{ConstellationLines, "stel.core.constellations.lines_visible = false;"},
		{ConstellationLabels, "stel.core.constellations.labels_visible = false;"},
		{Atmosphere, "stel.core.atmosphere.visible = false;"},
		{Landscape, "stel.core.landscapes.visible = false;"},
		{AzimuthalGrid, "stel.core.lines.azimuthal.visible = false;"},
		{EquatorialGrid, "stel.core.lines.equatorial.visible = false;"},
		{MilkyWay, "stel.core.milkyway.visible = false;"},
	}
	for _, c := range cases {
		js := r.Command(SetLayerVisible{Layer: c.layer, Visible: false})
		if !strings.Contains(js, c.path) {
			t.Errorf("layer %v: want %q in:\n%s", c.layer, c.path, js)
		}
	}
}

func TestQueryAltitudePipeline(t *testing.T) {
	r := NewRenderer("w1")
	js := r.Query(ObjectAltitude{Name: "NAME Sun"})

	// The exact pipeline order matters for parity with the engine's own
	// altitude convention.
	steps := []string{
		`stel.getObj("NAME Sun")`,
		`obj.getInfo('pvo', stel.observer)`,
		`stel.convertFrame(stel.observer, 'ICRF', 'OBSERVED', pvo[0])`,
		`stel.c2s(observed)`,
		`stel.anp(azalt[1]) / stel.D2R`,
	}
	pos := 0
	for _, step := range steps {
		idx := strings.Index(js[pos:], step)
		if idx < 0 {
			t.Fatalf("pipeline step %q missing or out of order:\n%s", step, js)
		}
		pos += idx + len(step)
	}
}

func TestQueryAzimuthComponent(t *testing.T) {
	r := NewRenderer("w1")
	js := r.Query(ObjectAzimuth{Name: "NAME Sun"})
	if !strings.Contains(js, "stel.anp(azalt[0]) / stel.D2R") {
		t.Errorf("azimuth must read spherical component 0:\n%s", js)
	}
}

func TestQueryEngineReady(t *testing.T) {
	r := NewRenderer("stel_ff00")
	if got, want := r.Query(EngineReady{}), "window.stel_ff00_ready === true"; got != want {
		t.Errorf("readiness expression: got %q, want %q", got, want)
	}
}

func TestQueryNullWhenHandleAbsent(t *testing.T) {
	r := NewRenderer("w1")
	js := r.Query(ObjectAltitude{Name: "NAME Sun"})
	if !strings.Contains(js, "if (!stel) return null;") {
		t.Errorf("query fragment must yield null without the handle:\n%s", js)
	}
}
