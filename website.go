// Package website embeds the static public site so the server binary ships
// as a single file.
package website

import (
	"embed"
	"io/fs"
)

//go:embed web
var content embed.FS

// PublicFS exposes the public site rooted at its web directory.
var PublicFS = mustSub(content, "web")

func mustSub(f embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
