package web

import (
	"html/template"
	"io"
)

// pageData feeds the demo page template.
type pageData struct {
	Title      string
	CanvasID   string
	RuntimeURL string
	EventsURL  string
	ResultURL  string
	Latitude   float64
	Longitude  float64
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; background: #111; color: #ccc; font: 14px/1.4 sans-serif; }
  .sky-frame { width: 100%; height: 70vh; background: #000; }
  .sky-frame canvas { width: 100%; height: 100%; display: block; }
  .status-bar { display: flex; justify-content: space-between; padding: 4px 8px; color: #888; }
  .status-ready { color: #6c6; }
</style>
</head>
<body>
<div class="sky-frame">
  <canvas id="{{.CanvasID}}"></canvas>
</div>
<div class="status-bar">
  <span id="{{.CanvasID}}_status">Initializing Stellarium...</span>
  <span>Lat: {{printf "%.1f" .Latitude}}&deg; Lon: {{printf "%.1f" .Longitude}}&deg;</span>
</div>
<script src="{{.RuntimeURL}}"></script>
<script>
  skywidgetConnect({{.EventsURL}}, {{.ResultURL}});
</script>
</body>
</html>
`))

func renderPage(w io.Writer, data pageData) error {
	return pageTmpl.Execute(w, data)
}
