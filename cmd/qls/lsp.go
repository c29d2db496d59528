package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"qls/internal/langsvc"
	"qls/internal/lsp"
	"qls/internal/project"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server over stdio",
	Long: `Serve the Language Server Protocol on stdin/stdout. Settings from the
qsharp.toml governing the working directory are the initial session
configuration; workspace/didChangeConfiguration overrides them.`,
	Args: cobra.NoArgs,
	RunE: runLSP,
}

func runLSP(cmd *cobra.Command, args []string) error {
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var cfg langsvc.Config
	m, err := project.Load(appFs, ".")
	switch {
	case err == nil:
		if cfg, err = m.SessionConfig(); err != nil {
			return err
		}
	case !errors.Is(err, project.ErrNoManifest):
		return err
	}
	if err := applyOverrides(&cfg); err != nil {
		return err
	}
	cfg.Tracer = tracer

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Config:         cfg,
		MaxDiagnostics: settings.GetInt("max-diagnostics"),
		Log:            cmd.ErrOrStderr(),
	})
	err = server.Run(cmd.Context())
	if errors.Is(err, lsp.ErrExit) {
		return nil
	}
	return err
}
