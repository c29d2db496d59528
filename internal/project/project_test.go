package project

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qls/internal/frontend"
	"qls/internal/lint"
	"qls/internal/target"
)

const sampleManifest = `
[package]
name = "teleport"
type = "lib"
target-profile = "adaptive_ri"
language-features = ["v2-preview-syntax"]

[[lints]]
lint = "divisionByZero"
level = "error"
`

func writeFile(t *testing.T, fsys afero.Fs, path, contents string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(contents), 0o644))
}

func TestFindManifestWalksUp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/qsharp.toml", sampleManifest)
	require.NoError(t, fsys.MkdirAll("/ws/src/nested", 0o755))

	path, err := FindManifest(fsys, "/ws/src/nested")
	require.NoError(t, err)
	assert.Equal(t, "/ws/qsharp.toml", path)
}

func TestFindManifestMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/empty/dir", 0o755))

	_, err := FindManifest(fsys, "/empty/dir")
	assert.True(t, errors.Is(err, ErrNoManifest))
}

func TestLoadAndSessionConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/qsharp.toml", sampleManifest)

	m, err := Load(fsys, "/ws")
	require.NoError(t, err)
	assert.Equal(t, "teleport", m.Config.Package.Name)
	assert.Equal(t, "/ws", m.Root)

	cfg, err := m.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, frontend.PackageTypeLib, cfg.PackageType)
	assert.Equal(t, target.AdaptiveRI, cfg.Profile)
	assert.Equal(t, []lint.Config{{Lint: lint.DivisionByZero, Level: lint.Error}}, cfg.Lints)
}

func TestLoadRejectsBadManifests(t *testing.T) {
	cases := map[string]string{
		"no package":    "[other]\nx = 1\n",
		"no name":       "[package]\ntype = \"lib\"\n",
		"unknown key":   "[package]\nname = \"a\"\nflavour = \"x\"\n",
		"unknown lint":  "[package]\nname = \"a\"\n[[lints]]\nlint = \"nope\"\nlevel = \"warn\"\n",
		"future tool":   "[package]\nname = \"a\"\nrequires = \">= 99.0\"\n",
		"broken syntax": "[package\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "/ws/qsharp.toml", text)
			_, err := Load(fsys, "/ws")
			assert.Error(t, err)
		})
	}
}

func TestSessionConfigRejectsUnknownFeature(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/qsharp.toml", "[package]\nname = \"a\"\nlanguage-features = [\"time-travel\"]\n")
	m, err := Load(fsys, "/ws")
	require.NoError(t, err)

	_, err = m.SessionConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time-travel")
}

func TestSourcesSortedAndRelative(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/qsharp.toml", "[package]\nname = \"a\"\n")
	writeFile(t, fsys, "/ws/src/Main.qs", "namespace Main {}")
	writeFile(t, fsys, "/ws/src/lib/Util.qs", "namespace Util {}")
	writeFile(t, fsys, "/ws/src/notes.txt", "ignored")

	m, err := Load(fsys, "/ws/src")
	require.NoError(t, err)
	entries, err := m.Sources(fsys)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Main.qs", entries[0].Name)
	assert.Equal(t, "lib/Util.qs", entries[1].Name)
	assert.Equal(t, "namespace Util {}", entries[1].Contents)
}

func TestWatchRelevance(t *testing.T) {
	m := &Manifest{Path: "/ws/qsharp.toml", Root: "/ws"}
	assert.True(t, m.relevant(fsnotify.Event{Name: "/ws/qsharp.toml", Op: fsnotify.Write}))
	assert.True(t, m.relevant(fsnotify.Event{Name: "/ws/src/A.qs", Op: fsnotify.Create}))
	assert.False(t, m.relevant(fsnotify.Event{Name: "/ws/src/A.qs", Op: fsnotify.Chmod}))
	assert.False(t, m.relevant(fsnotify.Event{Name: "/ws/README.md", Op: fsnotify.Write}))
}
