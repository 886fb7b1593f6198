// Package assets embeds the kiosk frontend: the page shell, its script and
// its stylesheet.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// StaticFS returns the embedded frontend files.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// GetIndexHTML returns the kiosk page shell. It is an html/template with a
// .Title field.
func GetIndexHTML() ([]byte, error) {
	return staticFS.ReadFile("static/index.html")
}

// GetKioskJS returns the kiosk frontend script.
func GetKioskJS() ([]byte, error) {
	return staticFS.ReadFile("static/cupcake.js")
}

// GetKioskCSS returns the kiosk stylesheet.
func GetKioskCSS() ([]byte, error) {
	return staticFS.ReadFile("static/cupcake.css")
}
