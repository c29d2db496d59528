// Package langsvc holds compilation sessions: an immutable snapshot of what
// the user's code means, rebuilt from source text on every edit and queried
// by editor features. A Compilation is either a project (whole files) or a
// notebook (cells compiled one after another).
package langsvc

import (
	"fmt"

	"qls/internal/capcheck"
	"qls/internal/diag"
	"qls/internal/fir"
	"qls/internal/frontend"
	"qls/internal/hir"
	"qls/internal/incremental"
	"qls/internal/lint"
	"qls/internal/observ"
	"qls/internal/source"
	"qls/internal/target"
	"qls/internal/trace"
)

// Kind tells how the user package was built.
type Kind uint8

const (
	// OpenProject: one or more whole-file sources.
	OpenProject Kind = iota
	// Notebook: one source per cell, compiled incrementally.
	Notebook
)

func (k Kind) String() string {
	if k == Notebook {
		return "notebook"
	}
	return "project"
}

// Config is the workspace configuration a session is built for.
type Config struct {
	PackageType frontend.PackageType
	Profile     target.Profile
	Features    frontend.LanguageFeatures
	Lints       []lint.Config
	Tracer      trace.Tracer // nil disables tracing
}

func (cfg Config) tracer() trace.Tracer {
	if cfg.Tracer == nil {
		return trace.Nop
	}
	return cfg.Tracer
}

// Compilation is a session snapshot. It is safe for concurrent readers as
// long as nobody calls Recompile on it; Service never does that on a
// published snapshot.
type Compilation struct {
	PackageStore  *frontend.PackageStore
	UserPackageID hir.PackageID
	Errors        []diag.Diagnostic
	Kind          Kind

	tracer trace.Tracer
	timer  *observ.Timer
	gen    uint64 // Service config generation the session was built under
}

// New compiles sources as one project package.
func New(sources []source.Entry, cfg Config) *Compilation {
	c := &Compilation{Kind: OpenProject, tracer: cfg.tracer(), timer: observ.NewTimer()}
	span := trace.Begin(c.tracer, trace.ScopeSession, "compilation", 0)
	defer func() { span.WithExtra("errors", fmt.Sprint(len(c.Errors))).End(c.Kind.String()) }()

	if len(sources) == 1 {
		trace.Pointf(c.tracer, trace.ScopeSession, "compile", span.ID(), "compiling single-file document %s", sources[0].Name)
	} else {
		trace.Pointf(c.tracer, trace.ScopeSession, "compile", span.ID(), "compiling package with %d sources", len(sources))
	}

	caps := cfg.Profile.Capabilities()
	ph := c.timer.Begin("store")
	store, stdID := frontend.NewStore(caps)
	c.timer.End(ph, "")

	ph = c.timer.Begin("compile")
	unit, errs := frontend.Compile(store, []hir.PackageID{stdID}, source.NewSourceMap(sources...), cfg.PackageType, caps, cfg.Features)
	c.timer.End(ph, fmt.Sprintf("%d diagnostics", len(errs)))
	c.Errors = append([]diag.Diagnostic(nil), errs...)

	c.runLints(unit, cfg.Lints, span.ID())
	c.PackageStore = store
	c.UserPackageID = store.Insert(unit)
	c.runPasses(unit, cfg.Profile, span.ID())
	c.runLints(unit, cfg.Lints, span.ID())
	return c
}

// NewNotebook compiles cells in order. An error in one cell does not stop
// the cells after it from compiling.
func NewNotebook(cells []source.Entry, cfg Config) *Compilation {
	c := &Compilation{Kind: Notebook, tracer: cfg.tracer(), timer: observ.NewTimer()}
	span := trace.Begin(c.tracer, trace.ScopeSession, "compilation", 0)
	defer func() { span.WithExtra("errors", fmt.Sprint(len(c.Errors))).End(c.Kind.String()) }()
	trace.Pointf(c.tracer, trace.ScopeSession, "compile", span.ID(), "compiling notebook")

	ph := c.timer.Begin("store")
	compiler, err := incremental.New(nil, frontend.PackageTypeLib, cfg.Profile.Capabilities(), cfg.Features)
	if err != nil {
		panic(fmt.Errorf("incremental compiler creation failed: %w", err))
	}
	c.timer.End(ph, "")

	ph = c.timer.Begin("compile")
	for _, cell := range cells {
		trace.Pointf(c.tracer, trace.ScopeSource, "cell", span.ID(), "compiling cell %s", cell.Name)
		inc, err := compiler.CompileFragments(cell.Name, cell.Contents, func(ds []diag.Diagnostic) error {
			c.Errors = append(c.Errors, ds...)
			return nil
		})
		if err != nil {
			panic(fmt.Errorf("compiling cell %s: accumulator must not fail: %w", cell.Name, err))
		}
		compiler.Update(inc)
	}
	c.timer.End(ph, fmt.Sprintf("%d cells", len(cells)))

	c.PackageStore, c.UserPackageID = compiler.IntoPackageStore()
	unit := c.UserUnit()
	c.runLints(unit, cfg.Lints, span.ID())
	c.runPasses(unit, cfg.Profile, span.ID())
	return c
}

// runLints appends lint findings, but only to a clean package: findings on
// broken code are noise and cost time on every keystroke.
func (c *Compilation) runLints(unit *frontend.CompileUnit, configs []lint.Config, parent uint64) {
	if len(c.Errors) > 0 {
		return
	}
	span := trace.Begin(c.tracer, trace.ScopePass, "lint", parent)
	ph := c.timer.Begin("lint")
	lints := lint.Run(unit, configs)
	for _, l := range lints {
		c.Errors = append(c.Errors, l.Diagnostic().WithSource(unit.Sources))
	}
	c.timer.End(ph, fmt.Sprintf("%d lints", len(lints)))
	span.WithExtra("lints", fmt.Sprint(len(lints))).End("")
}

// runPasses lowers the user package and checks it against the profile.
// Base is covered by the frontend's own check and Unrestricted allows
// everything, so neither is lowered.
func (c *Compilation) runPasses(unit *frontend.CompileUnit, profile target.Profile, parent uint64) {
	if len(c.Errors) > 0 {
		trace.Pointf(c.tracer, trace.ScopePass, "passes", parent, "skipped: %d diagnostics", len(c.Errors))
		return
	}
	if profile == target.Base || profile == target.Unrestricted {
		trace.Pointf(c.tracer, trace.ScopePass, "passes", parent, "skipped: profile %s", profile)
		return
	}

	span := trace.Begin(c.tracer, trace.ScopePass, "capcheck", parent)
	ph := c.timer.Begin("passes")
	unit.Analysis = fir.Lower(c.PackageStore, c.UserPackageID, unit.Package)
	violations := capcheck.Check(unit.Analysis, profile.Capabilities())
	for _, v := range violations {
		c.Errors = append(c.Errors, v.Diagnostic().WithSource(unit.Sources))
	}
	c.timer.End(ph, fmt.Sprintf("%d violations", len(violations)))
	span.WithExtra("violations", fmt.Sprint(len(violations))).End(profile.String())
}

// UserUnit returns the compiled user package.
func (c *Compilation) UserUnit() *frontend.CompileUnit {
	unit, ok := c.PackageStore.Get(c.UserPackageID)
	if !ok {
		panic(fmt.Errorf("user package %s not found in store", c.UserPackageID))
	}
	return unit
}

// Recompile rebuilds the session from the current user sources under cfg.
// The new state is built completely before any field changes.
func (c *Compilation) Recompile(cfg Config) {
	sources := c.UserUnit().Sources.Entries()
	var next *Compilation
	switch c.Kind {
	case Notebook:
		next = NewNotebook(sources, cfg)
	default:
		next = New(sources, cfg)
	}
	c.PackageStore, c.UserPackageID, c.Errors, c.tracer, c.timer = next.PackageStore, next.UserPackageID, next.Errors, next.tracer, next.timer
}

// Timings reports how long each construction phase took.
func (c *Compilation) Timings() observ.Report {
	if c.timer == nil {
		return observ.Report{}
	}
	return c.timer.Report()
}
