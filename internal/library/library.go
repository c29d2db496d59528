// Package library embeds the source text of the core and standard
// libraries. The text is compiled by frontend.Core and frontend.Std.
package library

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"qls/internal/source"
)

//go:embed core/*.qs std/*.qs
var libFS embed.FS

// FS exposes the embedded library sources.
func FS() fs.FS {
	return libFS
}

// Core returns the core library sources.
func Core() []source.Entry {
	return mustLoad("core")
}

// Std returns the standard library sources in a stable order.
func Std() []source.Entry {
	return mustLoad("std")
}

func mustLoad(dir string) []source.Entry {
	names, err := fs.Glob(libFS, path.Join(dir, "*.qs"))
	if err != nil {
		panic(fmt.Errorf("library %s: %w", dir, err))
	}
	sort.Strings(names)
	entries := make([]source.Entry, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(libFS, name)
		if err != nil {
			panic(fmt.Errorf("library %s: %w", name, err))
		}
		entries = append(entries, source.Entry{Name: "qsharp-library-source:" + name, Contents: string(data)})
	}
	return entries
}
