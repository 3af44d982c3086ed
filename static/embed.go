package staticfiles

import (
	"embed"
	"io/fs"
)

//go:embed css/* js/*
var assets embed.FS

// EmbeddedFS serves the builder stylesheet and script compiled into the binary.
func EmbeddedFS() fs.FS {
	return assets
}
