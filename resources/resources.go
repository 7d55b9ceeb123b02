// Package resources embeds the HTML templates and static assets into the
// binary.
package resources

import (
	"embed"
	"io/fs"
)

//go:embed views
var views embed.FS

//go:embed static
var static embed.FS

// Views is rooted at views/ (layouts, partials, pages).
func Views() fs.FS { return sub(views, "views") }

// Static is rooted at static/ (css, images).
func Static() fs.FS { return sub(static, "static") }

func sub(fsys embed.FS, dir string) fs.FS {
	out, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return out
}
