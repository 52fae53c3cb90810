package web

import (
	"embed"
)

//go:embed assets/skywidget.js
var assetsFS embed.FS

// RuntimeJS returns the embedded client runtime script.
func RuntimeJS() ([]byte, error) {
	return assetsFS.ReadFile("assets/skywidget.js")
}
