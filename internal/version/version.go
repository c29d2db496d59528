// Package version carries the tool version and checks manifest
// `requires` constraints against it.
package version

import (
	"fmt"

	"github.com/fatih/color"
	goversion "github.com/hashicorp/go-version"
)

// These can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of qls.
	Version = "0.1.0-dev"

	GitCommit = ""

	// BuildDate is in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each segment coloured for terminal output.
func Colored() string {
	v, err := goversion.NewVersion(Version)
	if err != nil {
		return Version
	}
	seg := v.Segments()
	out := versionMajorColor.Sprint(seg[0]) + "." + versionMinorColor.Sprint(seg[1]) + "." + versionPatchColor.Sprint(seg[2])
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	return out
}

// Check reports whether Version satisfies the constraint, e.g. ">= 0.1, < 2".
// An empty constraint always holds.
func Check(requires string) error {
	if requires == "" {
		return nil
	}
	constraints, err := goversion.NewConstraint(requires)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", requires, err)
	}
	current, err := goversion.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", Version, err)
	}
	// пререлизы сравниваем по ядру версии, иначе 0.1.0-dev не проходит ">= 0.1"
	core := current.Core()
	if !constraints.Check(core) {
		return fmt.Errorf("qls %s does not satisfy %q", Version, requires)
	}
	return nil
}
