package restserver

import (
	"embed"
	"io/fs"
	"os"
)

// Embed the dashboard templates and stylesheets
//
//go:embed all:assets
var assetsFS embed.FS

// GetAssets returns the assets filesystem, either from disk or embedded
func GetAssets() fs.FS {
	// AIRQ_ASSETS_DIR serves templates and CSS straight from disk so they can
	// be edited without rebuilding the binary.
	if dir := os.Getenv("AIRQ_ASSETS_DIR"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}

	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic("failed to create assets sub-filesystem: " + err.Error())
	}
	return assets
}
