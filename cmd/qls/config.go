package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"qls/internal/diagfmt"
)

// settings merges flags, QLS_* environment variables and an optional
// .qls.toml in the working directory, in that order of precedence.
var settings = viper.New()

func bindConfig(cmd *cobra.Command) error {
	settings.SetEnvPrefix("QLS")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	settings.SetConfigName(".qls")
	settings.SetConfigType("toml")
	settings.AddConfigPath(".")
	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read .qls.toml: %w", err)
		}
	}

	if err := settings.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := settings.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	return nil
}

// useColor resolves --color against the terminal state of f.
func useColor(f *os.File) (bool, error) {
	switch mode := strings.ToLower(settings.GetString("color")); mode {
	case "on", "always", "true":
		return true, nil
	case "off", "never", "false":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected: auto|on|off)", mode)
	}
}

func diagnosticsFormat() (diagfmt.Format, error) {
	return diagfmt.ParseFormat(strings.ToLower(settings.GetString("format")))
}
