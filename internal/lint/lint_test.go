package lint

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"

	"qls/internal/diag"
	"qls/internal/frontend"
	"qls/internal/hir"
	"qls/internal/source"
	"qls/internal/target"
)

func compile(t *testing.T, text string) *frontend.CompileUnit {
	t.Helper()
	store, stdID := frontend.NewStore(target.CapsAll)
	sm := source.NewSourceMap(source.Entry{Name: "a.qs", Contents: text})
	unit, errs := frontend.Compile(store, []hir.PackageID{stdID}, sm, frontend.PackageTypeLib, target.CapsAll, 0)
	if len(errs) > 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	return unit
}

func names(lints []Lint) []Name {
	out := make([]Name, len(lints))
	for i, l := range lints {
		out[i] = l.Name
	}
	return out
}

func equalNames(a, b []Name) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDefaults(t *testing.T) {
	unit := compile(t, `namespace A {
    function F(x : Double) : Bool {
        let y = 1 / 0;;;
        return (x == 1.0);
    }
}`)
	got := Run(unit, nil)
	if !equalNames(names(got), []Name{DoubleEquality}) {
		t.Fatalf("default lints = %v", names(got))
	}
	d := got[0].Diagnostic()
	if d.Kind != diag.KindLint || d.Severity != diag.SevWarning || d.Code != diag.LintDoubleEquality {
		t.Fatalf("unexpected diagnostic %v", d)
	}
}

func TestAllRulesEnabled(t *testing.T) {
	unit := compile(t, `namespace A {
    function F(x : Double) : Bool {
        let y = 1 / 0;;;
        let z = (2);
        return (x == 1.0);
    }

    operation G() : Int {
        return 4 % (0);
    }
}`)
	configs := []Config{
		{Lint: DivisionByZero, Level: Error},
		{Lint: NeedlessParens, Level: Warn},
		{Lint: RedundantSemicolons, Level: Warn},
		{Lint: NeedlessOperation, Level: Warn},
	}
	got := Run(unit, configs)
	want := []Name{
		DivisionByZero, DivisionByZero,
		NeedlessParens, NeedlessParens, NeedlessParens,
		RedundantSemicolons,
		DoubleEquality,
		NeedlessOperation,
	}
	if !equalNames(names(got), want) {
		t.Fatalf("lints = %v, want %v", names(got), want)
	}
	if got[0].Diagnostic().Severity != diag.SevError {
		t.Fatalf("divisionByZero configured as error")
	}
	// findings of one rule are in source order
	for i := 1; i < len(got); i++ {
		if got[i].Name == got[i-1].Name && got[i].Span.Lo < got[i-1].Span.Lo {
			t.Fatalf("lints of %s out of order", got[i].Name)
		}
	}
}

func TestParensDeduplicated(t *testing.T) {
	// `(x)` as the whole initializer and as a parenthesized path is reported once
	unit := compile(t, `namespace A { function F(x : Int) : Unit { let y = (x); } }`)
	got := Run(unit, []Config{{Lint: NeedlessParens, Level: Warn}})
	if len(got) != 1 {
		t.Fatalf("expected one finding, got %v", got)
	}
}

func TestAllowDisablesDefault(t *testing.T) {
	unit := compile(t, `namespace A { function F(x : Double) : Bool { return x == 1.0; } }`)
	if got := Run(unit, []Config{{Lint: DoubleEquality, Level: Allow}}); len(got) != 0 {
		t.Fatalf("expected no lints, got %v", got)
	}
}

func TestConfigDecoding(t *testing.T) {
	var fromJSON []Config
	if err := json.Unmarshal([]byte(`[{"lint":"needlessParens","level":"warn"}]`), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if fromJSON[0].Lint != NeedlessParens || fromJSON[0].Level != Warn {
		t.Fatalf("json decode = %+v", fromJSON)
	}

	var fromTOML struct {
		Lints []Config `toml:"lints"`
	}
	if _, err := toml.Decode("[[lints]]\nlint = \"divisionByZero\"\nlevel = \"error\"\n", &fromTOML); err != nil {
		t.Fatal(err)
	}
	if fromTOML.Lints[0].Lint != DivisionByZero || fromTOML.Lints[0].Level != Error {
		t.Fatalf("toml decode = %+v", fromTOML)
	}

	if err := json.Unmarshal([]byte(`[{"lint":"nope","level":"warn"}]`), &fromJSON); err == nil {
		t.Fatal("expected unknown lint error")
	}
}

func TestRules(t *testing.T) {
	rs := Rules()
	if len(rs) != 5 || rs[3].Lint != DoubleEquality || rs[3].Level != Warn {
		t.Fatalf("unexpected rules %+v", rs)
	}
}
