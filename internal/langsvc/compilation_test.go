package langsvc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"qls/internal/diag"
	"qls/internal/eval"
	"qls/internal/frontend"
	"qls/internal/hir"
	"qls/internal/lint"
	"qls/internal/source"
	"qls/internal/target"
	"qls/internal/trace"
)

const dynamicDouble = `namespace A {
    open Microsoft.Quantum.Intrinsic;
    @EntryPoint()
    operation Main() : Unit {
        use q = Qubit();
        mutable x = 0.0;
        if M(q) == One { set x = 1.0; }
        let y = x * 2.0;
    }
}`

const clean = `namespace A {
    open Microsoft.Quantum.Math;
    function Helper(a : Int) : Int {
        AbsI(a)
    }
    @EntryPoint()
    operation Main() : Int {
        let v = Helper(-1000);
        return v;
    }
}`

func exe(profile target.Profile) Config {
	return Config{PackageType: frontend.PackageTypeExe, Profile: profile}
}

func one(name, text string) []source.Entry {
	return []source.Entry{{Name: name, Contents: text}}
}

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func TestLibraryAndUserIDs(t *testing.T) {
	c := New(one("main.qs", clean), exe(target.Unrestricted))
	require.Empty(t, c.Errors)
	require.Equal(t, OpenProject, c.Kind)
	require.Equal(t, hir.PackageID(3), c.UserPackageID)
	require.Equal(t, []hir.PackageID{1, 2, 3}, c.PackageStore.IDs())
	require.Same(t, c.UserUnit(), mustGet(t, c, 3))
}

func mustGet(t *testing.T, c *Compilation, id hir.PackageID) *frontend.CompileUnit {
	t.Helper()
	unit, ok := c.PackageStore.Get(id)
	require.True(t, ok)
	return unit
}

func TestPassGatingByProfile(t *testing.T) {
	tests := []struct {
		profile  target.Profile
		analysed bool
		want     []diag.Code
	}{
		{target.Unrestricted, false, nil},
		{target.AdaptiveRI, true, []diag.Code{diag.CapFloatingPointComputation}},
		{target.AdaptiveRIF, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.profile.String(), func(t *testing.T) {
			c := New(one("main.qs", dynamicDouble), exe(tt.profile))
			require.Equal(t, tt.want, nilIfEmpty(codes(c.Errors)))
			require.Equal(t, tt.analysed, c.UserUnit().Analysis != nil)
			for _, d := range c.Errors {
				require.Equal(t, diag.KindPass, d.Kind)
				require.Equal(t, "main.qs", d.Source)
			}
		})
	}
}

func nilIfEmpty(cs []diag.Code) []diag.Code {
	if len(cs) == 0 {
		return nil
	}
	return cs
}

func TestBaseProfileSkipsPasses(t *testing.T) {
	c := New(one("main.qs", clean), exe(target.Base))
	require.Empty(t, c.Errors)
	require.Nil(t, c.UserUnit().Analysis)

	// the frontend reports Base violations itself
	c = New(one("main.qs", dynamicDouble), exe(target.Base))
	require.Equal(t, []diag.Code{diag.BaseResultComparison}, codes(c.Errors))
	require.Nil(t, c.UserUnit().Analysis)
}

func TestPassesSkippedOnErrors(t *testing.T) {
	broken := strings.Replace(dynamicDouble, "let y = x * 2.0;", "let y = x * 2;", 1)
	c := New(one("main.qs", broken), exe(target.AdaptiveRI))
	require.Equal(t, []diag.Code{diag.TypInvalidOperands}, codes(c.Errors))
	require.Nil(t, c.UserUnit().Analysis)
}

const doubleEq = `namespace A {
    function F(x : Double) : Bool {
        x == 1.0
    }
}`

func TestLintsGatedOnDiagnostics(t *testing.T) {
	cfg := Config{PackageType: frontend.PackageTypeLib, Profile: target.Unrestricted}
	c := New(one("lib.qs", doubleEq), cfg)
	require.Equal(t, []diag.Code{diag.LintDoubleEquality}, codes(c.Errors))
	require.Equal(t, diag.KindLint, c.Errors[0].Kind)
	require.Equal(t, diag.SevWarning, c.Errors[0].Severity)

	broken := strings.Replace(doubleEq, "x == 1.0", "x == y", 1)
	c = New(one("lib.qs", broken), cfg)
	require.Equal(t, []diag.Code{diag.ResNotFound}, codes(c.Errors))

	cfg.Lints = []lint.Config{{Lint: lint.DoubleEquality, Level: lint.Allow}}
	c = New(one("lib.qs", doubleEq), cfg)
	require.Empty(t, c.Errors)
}

func TestLintErrorLevelBlocksPasses(t *testing.T) {
	cfg := exe(target.AdaptiveRI)
	cfg.Lints = []lint.Config{{Lint: lint.NeedlessParens, Level: lint.Error}}
	src := strings.Replace(dynamicDouble, "let y = x * 2.0;", "let y = (x * 2.0);", 1)
	c := New(one("main.qs", src), cfg)
	require.Equal(t, []diag.Code{diag.LintNeedlessParens}, codes(c.Errors))
	require.Equal(t, diag.SevError, c.Errors[0].Severity)
	require.Nil(t, c.UserUnit().Analysis)
}

func TestNotebookKeepsGoodCells(t *testing.T) {
	cells := []source.Entry{
		{Name: "cell1", Contents: "function First() : Int { 1 }"},
		{Name: "cell2", Contents: "let broken = Missing();"},
		{Name: "cell3", Contents: "function Second() : Int { First() + 1 }"},
	}
	c := NewNotebook(cells, Config{Profile: target.Unrestricted})
	require.Equal(t, Notebook, c.Kind)
	require.Equal(t, []diag.Code{diag.ResNotFound}, codes(c.Errors))
	require.Equal(t, "cell2", c.Errors[0].Source)

	names := map[string]bool{}
	for i := range c.UserUnit().Package.Items {
		item, _, abs := c.ResolveItemRelativeToUserPackage(hir.ItemID{Item: hir.LocalItemID(i)})
		require.Equal(t, c.UserPackageID, abs.Package)
		names[item.Name] = true
	}
	require.True(t, names["First"])
	require.True(t, names["Second"])
}

func TestNotebookEvaluatesLibraryCall(t *testing.T) {
	c := NewNotebook([]source.Entry{{Name: "cell1", Contents: "Microsoft.Quantum.Math.AbsI(-1000)"}}, Config{Profile: target.Unrestricted})
	require.Empty(t, c.Errors)

	v, err := eval.Run(context.Background(), c.PackageStore, c.UserPackageID, eval.Options{})
	require.NoError(t, err)
	require.True(t, eval.Int(1000).Equal(v), "got %s", v)
}

func TestProjectEvaluatesEntryPoint(t *testing.T) {
	c := New(one("main.qs", clean), exe(target.AdaptiveRI))
	require.Empty(t, c.Errors)
	v, err := eval.Run(context.Background(), c.PackageStore, c.UserPackageID, eval.Options{})
	require.NoError(t, err)
	require.True(t, eval.Int(1000).Equal(v))
}

func TestRecompileIsDeterministic(t *testing.T) {
	cfg := exe(target.AdaptiveRI)
	c := New([]source.Entry{{Name: "a.qs", Contents: dynamicDouble}}, cfg)
	before := append([]diag.Diagnostic(nil), c.Errors...)
	oldStore := c.PackageStore

	c.Recompile(cfg)
	require.Equal(t, before, c.Errors)
	require.NotSame(t, oldStore, c.PackageStore)

	c.Recompile(exe(target.AdaptiveRIF))
	require.Empty(t, c.Errors)
	require.Equal(t, OpenProject, c.Kind)
}

func TestRecompileNotebook(t *testing.T) {
	cells := []source.Entry{{Name: "c1", Contents: "let x = 1.0;"}, {Name: "c2", Contents: "x == 2.0"}}
	c := NewNotebook(cells, Config{Profile: target.Unrestricted})
	require.Equal(t, []diag.Code{diag.LintDoubleEquality}, codes(c.Errors))

	c.Recompile(Config{Profile: target.Unrestricted, Lints: []lint.Config{{Lint: lint.DoubleEquality, Level: lint.Allow}}})
	require.Empty(t, c.Errors)
	require.Equal(t, Notebook, c.Kind)
	require.Equal(t, cells, c.UserUnit().Sources.Entries())
}

func TestTimingsAndTrace(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	cfg := exe(target.AdaptiveRI)
	cfg.Tracer = ring
	c := New(one("main.qs", clean), cfg)

	var phases []string
	for _, p := range c.Timings().Phases {
		phases = append(phases, p.Name)
	}
	require.Equal(t, []string{"store", "compile", "lint", "passes", "lint"}, phases)

	var details []string
	for _, ev := range ring.Snapshot() {
		details = append(details, ev.Detail)
	}
	require.Contains(t, details, "compiling single-file document main.qs")
}
