package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"qls/internal/frontend"
	"qls/internal/langsvc"
	"qls/internal/project"
	"qls/internal/source"
	"qls/internal/target"
)

var appFs = afero.NewOsFs()

// workspace is what a command compiles: either one .qs document or the
// package described by the nearest qsharp.toml.
type workspace struct {
	manifest *project.Manifest // nil for a lone document
	sources  []source.Entry
	cfg      langsvc.Config
}

func (ws *workspace) describe() string {
	if ws.manifest == nil {
		return ws.sources[0].Name
	}
	return ws.manifest.Config.Package.Name
}

func loadWorkspace(path string) (*workspace, error) {
	if path == "" {
		path = "."
	}
	info, err := appFs.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if filepath.Ext(path) != ".qs" {
			return nil, fmt.Errorf("%s: expected a .qs file or a project directory", path)
		}
		data, err := afero.ReadFile(appFs, path)
		if err != nil {
			return nil, err
		}
		ws := &workspace{sources: []source.Entry{{Name: filepath.ToSlash(path), Contents: string(data)}}}
		// одиночный файл всё равно подхватывает настройки проекта, если он есть
		m, err := project.Load(appFs, filepath.Dir(path))
		switch {
		case err == nil:
			if ws.cfg, err = m.SessionConfig(); err != nil {
				return nil, err
			}
		case !errors.Is(err, project.ErrNoManifest):
			return nil, err
		}
		return ws, applyOverrides(&ws.cfg)
	}

	m, err := project.Load(appFs, path)
	if err != nil {
		return nil, err
	}
	cfg, err := m.SessionConfig()
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(&cfg); err != nil {
		return nil, err
	}
	sources, err := m.Sources(appFs)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%s: no .qs files", m.SourceDir())
	}
	return &workspace{manifest: m, sources: sources, cfg: cfg}, nil
}

// reload re-reads the manifest and sources of a project workspace.
func (ws *workspace) reload() (*workspace, error) {
	if ws.manifest == nil {
		return loadWorkspace(ws.sources[0].Name)
	}
	return loadWorkspace(ws.manifest.Root)
}

// applyOverrides layers --profile and --features over the manifest values.
func applyOverrides(cfg *langsvc.Config) error {
	if p := settings.GetString("profile"); p != "" {
		profile, err := target.ParseProfile(p)
		if err != nil {
			return err
		}
		cfg.Profile = profile
	}
	if names := settings.GetStringSlice("features"); len(names) > 0 {
		features, unknown := frontend.ParseLanguageFeatures(names)
		if len(unknown) > 0 {
			return fmt.Errorf("unknown language features: %s", strings.Join(unknown, ", "))
		}
		cfg.Features = features
	}
	return nil
}
