package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// subFS roots fsys at dir. The directories are embedded above, so Sub can
// only fail on a typo in dir.
func subFS(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}

	return sub
}

// Templates returns the embedded page templates rooted at the templates directory.
func Templates() fs.FS { return subFS(embeddedTemplates, "templates") }

// Static returns the embedded assets rooted at the static directory.
func Static() fs.FS { return subFS(embeddedStaticFiles, "static") }
