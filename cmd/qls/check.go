package main

import (
	"errors"

	"github.com/spf13/cobra"

	"qls/internal/hir"
	"qls/internal/langsvc"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.qs|dir]",
	Short: "Compile a document or project and report diagnostics",
	Long: `Compile a single .qs document, or the package described by the nearest
qsharp.toml, exactly as the language service would, and print its
diagnostics. Exits non-zero if any diagnostic is an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("emit-hir", false, "print the lowered HIR of the user package")
}

func runCheck(cmd *cobra.Command, args []string) error {
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	ws, err := loadWorkspace(path)
	if err != nil {
		return err
	}
	ws.cfg.Tracer = tracer

	comp := langsvc.New(ws.sources, ws.cfg)
	out := cmd.OutOrStdout()
	reportErr := reportDiagnostics(out, comp)
	if reportErr != nil && !errors.Is(reportErr, errHasErrors) {
		return reportErr
	}

	emitHIR, err := cmd.Flags().GetBool("emit-hir")
	if err != nil {
		return err
	}
	if emitHIR {
		if err := hir.Dump(out, comp.UserUnit().Package); err != nil {
			return err
		}
	}
	printSummary(cmd.ErrOrStderr(), ws.describe(), comp)
	printTimings(cmd.ErrOrStderr(), comp.Timings())
	return reportErr
}
