package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates
	embeddedTemplates embed.FS
)

// viewsFS returns the embedded views rooted at the templates directory.
func viewsFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// the directory is compiled in
		panic(err)
	}

	return sub
}
