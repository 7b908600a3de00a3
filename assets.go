package formbuilder

import (
	"embed"
	"io/fs"
)

//go:embed assets/page.html assets/forms/*.yaml
var embeddedAssets embed.FS

// DefaultMount matches the mount point of the default page.
const DefaultMount = "#app"

// AssetsFS exposes the bundled page and sample form documents:
//
//	page.html
//	forms/contact.yaml
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// DefaultPage returns the bundled page with an empty <main id="app">.
func DefaultPage() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/page.html")
	if err != nil {
		return "<html><body><main id=\"app\"></main></body></html>"
	}
	return string(data)
}
