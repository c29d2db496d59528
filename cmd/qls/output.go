package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"qls/internal/diag"
	"qls/internal/diagfmt"
	"qls/internal/langsvc"
	"qls/internal/observ"
)

// errHasErrors signals a non-zero exit after diagnostics were printed.
var errHasErrors = errors.New("compilation produced errors")

// reportDiagnostics prints the session diagnostics and returns errHasErrors
// when any of them is an error.
func reportDiagnostics(out io.Writer, comp *langsvc.Compilation) error {
	format, err := diagnosticsFormat()
	if err != nil {
		return err
	}
	ds := comp.Errors
	if limit := settings.GetInt("max-diagnostics"); limit > 0 && len(ds) > limit {
		ds = diag.Sorted(ds)[:limit]
	}
	sources := comp.UserUnit().Sources

	switch format {
	case diagfmt.FormatJSON:
		if err := diagfmt.JSON(out, ds, sources, diagfmt.JSONOpts{IncludePositions: true}); err != nil {
			return err
		}
	case diagfmt.FormatShort:
		diagfmt.Short(out, ds, sources)
	default:
		colored, err := useColor(os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, ds, sources, diagfmt.PrettyOpts{Color: colored, ShowNotes: true, ShowHelp: true})
	}
	if diag.HasErrors(comp.Errors) {
		return errHasErrors
	}
	return nil
}

func printSummary(out io.Writer, what string, comp *langsvc.Compilation) {
	errs, warns := 0, 0
	for _, d := range comp.Errors {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		color.New(color.FgGreen).Fprintf(out, "%s: ok\n", what)
		return
	}
	fmt.Fprintf(out, "%s: %d error(s), %d warning(s)\n", what, errs, warns)
}

func printTimings(out io.Writer, report observ.Report) {
	if !settings.GetBool("timings") {
		return
	}
	for _, p := range report.Phases {
		if p.Note != "" {
			fmt.Fprintf(out, "%-8s %.1f ms (%s)\n", p.Name, p.DurationMS, p.Note)
			continue
		}
		fmt.Fprintf(out, "%-8s %.1f ms\n", p.Name, p.DurationMS)
	}
	fmt.Fprintf(out, "%-8s %.1f ms\n", "total", report.TotalMS)
}
