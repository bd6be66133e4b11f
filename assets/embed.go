// Package assets holds the resources compiled into the binary: the default
// word list and the SQLite migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt sql/*.sql
var FS embed.FS

// Words opens the embedded default word list.
func Words() (fs.File, error) {
	return FS.Open("words.txt")
}

// Migrations returns the embedded migration scripts rooted at sql/.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded above; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
