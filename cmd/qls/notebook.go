package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"qls/internal/eval"
	"qls/internal/langsvc"
	"qls/internal/source"
)

var notebookCmd = &cobra.Command{
	Use:   "notebook [flags] <cell.qs>...",
	Short: "Compile files as consecutive notebook cells",
	Long: `Treat each file as one notebook cell, compiled in order so that later
cells see the items of earlier ones. A cell with errors keeps its source
but contributes nothing. With --eval the cells' top-level statements run
after a clean compile.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNotebook,
}

func init() {
	notebookCmd.Flags().Bool("eval", false, "evaluate the cells after a clean compile")
	notebookCmd.Flags().Int("max-steps", 1_000_000, "statement budget for --eval (0 = unlimited)")
}

func runNotebook(cmd *cobra.Command, args []string) error {
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cells := make([]source.Entry, 0, len(args))
	for _, path := range args {
		data, err := afero.ReadFile(appFs, path)
		if err != nil {
			return err
		}
		cells = append(cells, source.Entry{Name: path, Contents: string(data)})
	}
	cfg := langsvc.Config{}
	if err := applyOverrides(&cfg); err != nil {
		return err
	}
	cfg.Tracer = tracer

	comp := langsvc.NewNotebook(cells, cfg)
	out := cmd.OutOrStdout()
	if err := reportDiagnostics(out, comp); err != nil {
		if errors.Is(err, errHasErrors) {
			printSummary(cmd.ErrOrStderr(), "notebook", comp)
		}
		return err
	}
	printTimings(cmd.ErrOrStderr(), comp.Timings())

	doEval, err := cmd.Flags().GetBool("eval")
	if err != nil {
		return err
	}
	if !doEval {
		printSummary(cmd.ErrOrStderr(), "notebook", comp)
		return nil
	}
	return evaluate(cmd, comp)
}

// evaluate runs the user package and prints a non-unit result.
func evaluate(cmd *cobra.Command, comp *langsvc.Compilation) error {
	maxSteps, err := cmd.Flags().GetInt("max-steps")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	v, err := eval.Run(cmd.Context(), comp.PackageStore, comp.UserPackageID, eval.Options{Out: out, MaxSteps: maxSteps})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	if v.Kind != eval.KindUnit {
		fmt.Fprintln(out, v)
	}
	return nil
}
