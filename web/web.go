// Package web embeds the HTML views and static assets served by the UI.
package web

import (
	"embed"
	"io/fs"
)

//go:embed views static
var content embed.FS

// Views holds the HTML templates, rooted at the views directory.
var Views = mustSub("views")

// Static holds CSS and JavaScript assets, rooted at the static directory.
var Static = mustSub("static")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
