package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qls/internal/prof"
	"qls/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "qls",
	Short: "Q# language service toolchain",
	Long:  `qls compiles Q# projects and notebooks the way the language service does and reports diagnostics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindConfig(cmd); err != nil {
			return err
		}
		return startProfiling()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(notebookCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("profile", "", "target profile, overrides qsharp.toml (unrestricted|base|adaptive_ri|adaptive_rif)")
	rootCmd.PersistentFlags().StringSlice("features", nil, "language features, overrides qsharp.toml")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
	rootCmd.PersistentFlags().String("trace", "", "trace output path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|session|pass|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "text", "trace format (text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")

	err := rootCmd.Execute()
	if stopErr := stopProfiling(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "profiling: %v\n", stopErr)
	}
	if err != nil {
		// диагностики уже напечатаны
		if !errors.Is(err, errHasErrors) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var profSession *prof.Session

func startProfiling() error {
	opts := prof.Options{
		CPU:   settings.GetString("cpuprofile"),
		Mem:   settings.GetString("memprofile"),
		Trace: settings.GetString("runtime-trace"),
	}
	if !opts.Enabled() {
		return nil
	}
	s, err := prof.Start(opts)
	if err != nil {
		return err
	}
	profSession = s
	return nil
}

func stopProfiling() error {
	if profSession == nil {
		return nil
	}
	return profSession.Stop()
}
