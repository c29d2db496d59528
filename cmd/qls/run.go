package main

import (
	"github.com/spf13/cobra"

	"qls/internal/langsvc"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.qs|dir]",
	Short: "Compile and evaluate a Q# program",
	Long:  `Compile a document or project and, if it is error-free, evaluate its entry point`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExecution,
}

func init() {
	runCmd.Flags().Int("max-steps", 1_000_000, "statement budget (0 = unlimited)")
}

func runExecution(cmd *cobra.Command, args []string) error {
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
	if err := reportDiagnostics(cmd.ErrOrStderr(), comp); err != nil {
		return err
	}
	printTimings(cmd.ErrOrStderr(), comp.Timings())
	return evaluate(cmd, comp)
}
