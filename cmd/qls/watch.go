package main

import (
	"errors"
	"fmt"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"qls/internal/langsvc"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [dir]",
	Short: "Recompile a project whenever its files change",
	Long: `Watch qsharp.toml and the project's .qs files and print fresh
diagnostics after every change. A manifest change reconfigures the session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 0, "quiet period before recompiling (0 = default)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	ws, err := loadWorkspace(path)
	if err != nil {
		return err
	}
	if ws.manifest == nil {
		return fmt.Errorf("%s: watch needs a project directory with %s", path, "qsharp.toml")
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	ws.cfg.Tracer = tracer
	svc := langsvc.NewService(ws.cfg)
	uri := ws.manifest.Path
	out := cmd.OutOrStdout()

	show := func(comp *langsvc.Compilation) error {
		if err := reportDiagnostics(out, comp); err != nil && !errors.Is(err, errHasErrors) {
			return err
		}
		printSummary(cmd.ErrOrStderr(), ws.describe(), comp)
		printTimings(cmd.ErrOrStderr(), comp.Timings())
		return nil
	}
	if err := show(svc.UpdateDocument(uri, ws.sources)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	onChange := func() error {
		next, err := ws.reload()
		if err != nil {
			return err
		}
		next.cfg.Tracer = tracer
		if next.cfg.Profile != ws.cfg.Profile || next.cfg.PackageType != ws.cfg.PackageType ||
			next.cfg.Features != ws.cfg.Features || !slices.Equal(next.cfg.Lints, ws.cfg.Lints) {
			if err := svc.SetConfig(ctx, next.cfg); err != nil {
				return err
			}
		}
		ws = next
		return show(svc.UpdateDocument(uri, ws.sources))
	}
	onError := func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
	}
	return ws.manifest.Watch(ctx, debounce, onChange, onError)
}

