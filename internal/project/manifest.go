// Package project loads a qsharp.toml workspace: the manifest, the
// configuration it implies for compilation sessions and the .qs sources
// under its src directory.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"qls/internal/frontend"
	"qls/internal/langsvc"
	"qls/internal/lint"
	"qls/internal/target"
	"qls/internal/version"
)

const ManifestName = "qsharp.toml"

// ErrNoManifest is returned when no qsharp.toml exists at or above the
// start directory.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

type Manifest struct {
	Path   string // path of qsharp.toml
	Root   string // directory containing it
	Config manifestConfig
}

type manifestConfig struct {
	Package packageConfig `toml:"package"`
	Lints   []lint.Config `toml:"lints"`
}

type packageConfig struct {
	Name             string   `toml:"name"`
	Type             string   `toml:"type"`
	TargetProfile    string   `toml:"target-profile"`
	LanguageFeatures []string `toml:"language-features"`
	Requires         string   `toml:"requires"`
}

// FindManifest walks up from startDir to locate qsharp.toml.
func FindManifest(fsys afero.Fs, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := fsys.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched from %s)", ErrNoManifest, startDir)
		}
		dir = parent
	}
}

// Load finds and decodes the manifest governing startDir.
func Load(fsys afero.Fs, startDir string) (*Manifest, error) {
	path, err := FindManifest(fsys, startDir)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var cfg manifestConfig
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if err := version.Check(cfg.Package.Requires); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// SessionConfig converts the manifest into a session configuration.
func (m *Manifest) SessionConfig() (langsvc.Config, error) {
	pkg := m.Config.Package
	pkgType, err := frontend.ParsePackageType(pkg.Type)
	if err != nil {
		return langsvc.Config{}, fmt.Errorf("%s: %w", m.Path, err)
	}
	profile, err := target.ParseProfile(pkg.TargetProfile)
	if err != nil {
		return langsvc.Config{}, fmt.Errorf("%s: %w", m.Path, err)
	}
	features, unknown := frontend.ParseLanguageFeatures(pkg.LanguageFeatures)
	if len(unknown) > 0 {
		return langsvc.Config{}, fmt.Errorf("%s: unknown language features: %s", m.Path, strings.Join(unknown, ", "))
	}
	return langsvc.Config{
		PackageType: pkgType,
		Profile:     profile,
		Features:    features,
		Lints:       m.Config.Lints,
	}, nil
}

// SourceDir is where the package's .qs files live.
func (m *Manifest) SourceDir() string {
	return filepath.Join(m.Root, "src")
}
