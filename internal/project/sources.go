package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"qls/internal/source"
)

// LoadSources reads every .qs file under dir in lexical path order. Names
// are slash-separated paths relative to dir.
func LoadSources(fsys afero.Fs, dir string) ([]source.Entry, error) {
	var paths []string
	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".qs" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing sources in %s: %w", dir, err)
	}
	slices.Sort(paths)

	out := make([]source.Entry, 0, len(paths))
	for _, path := range paths {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, err
		}
		out = append(out, source.Entry{Name: filepath.ToSlash(rel), Contents: string(data)})
	}
	return out, nil
}

// Sources loads the package's sources from SourceDir.
func (m *Manifest) Sources(fsys afero.Fs) ([]source.Entry, error) {
	return LoadSources(fsys, m.SourceDir())
}
