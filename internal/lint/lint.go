// Package lint implements style and correctness rules over the syntax tree
// and the HIR of a compiled unit.
package lint

import (
	"sort"

	"qls/internal/diag"
	"qls/internal/frontend"
	"qls/internal/source"
)

// Lint is one finding.
type Lint struct {
	Name    Name
	Level   Level
	Span    source.Span
	Message string
	Help    string
}

var ruleCodes = map[Name]diag.Code{
	DivisionByZero:      diag.LintDivisionByZero,
	NeedlessParens:      diag.LintNeedlessParens,
	RedundantSemicolons: diag.LintRedundantSemicolons,
	DoubleEquality:      diag.LintDoubleEquality,
	NeedlessOperation:   diag.LintNeedlessOperation,
}

// Diagnostic converts the finding. Warn maps to a warning, Error to an error.
func (l Lint) Diagnostic() diag.Diagnostic {
	sev := diag.SevWarning
	if l.Level == Error {
		sev = diag.SevError
	}
	d := diag.New(diag.KindLint, sev, ruleCodes[l.Name], l.Span, l.Message)
	if l.Help != "" {
		d = d.WithHelp(l.Help)
	}
	return d
}

type rule struct {
	name  Name
	level Level // default
	check func(*context, *frontend.CompileUnit)
}

// rules run in this order; AST rules come first.
var rules = []rule{
	{DivisionByZero, Allow, checkDivisionByZero},
	{NeedlessParens, Allow, checkNeedlessParens},
	{RedundantSemicolons, Allow, checkRedundantSemicolons},
	{DoubleEquality, Warn, checkDoubleEquality},
	{NeedlessOperation, Allow, checkNeedlessOperation},
}

func ruleByName(name Name) (rule, bool) {
	for _, r := range rules {
		if r.name == name {
			return r, true
		}
	}
	return rule{}, false
}

// Rules lists every rule name with its default level.
func Rules() []Config {
	out := make([]Config, len(rules))
	for i, r := range rules {
		out[i] = Config{Lint: r.name, Level: r.level}
	}
	return out
}

type context struct {
	name  Name
	level Level
	out   []Lint
	cur   Lint
	dedup *diag.DedupReporter
}

func (c *context) report(span source.Span, msg, help string) {
	c.cur = Lint{Name: c.name, Level: c.level, Span: span, Message: msg, Help: help}
	c.dedup.Report(c.cur.Diagnostic())
}

// Run applies every enabled rule to unit. Findings are ordered by rule and
// then by position; rules at level Allow are skipped. A later config entry
// for the same rule wins.
func Run(unit *frontend.CompileUnit, configs []Config) []Lint {
	levels := make(map[Name]Level, len(configs))
	for _, cfg := range configs {
		levels[cfg.Lint] = cfg.Level
	}
	var out []Lint
	for _, r := range rules {
		level, ok := levels[r.name]
		if !ok {
			level = r.level
		}
		if level == Allow {
			continue
		}
		ctx := &context{name: r.name, level: level}
		ctx.dedup = diag.NewDedupReporter(diag.ReporterFunc(func(diag.Diagnostic) {
			ctx.out = append(ctx.out, ctx.cur)
		}))
		r.check(ctx, unit)
		sort.SliceStable(ctx.out, func(i, j int) bool {
			return ctx.out[i].Span.Lo < ctx.out[j].Span.Lo
		})
		out = append(out, ctx.out...)
	}
	return out
}
