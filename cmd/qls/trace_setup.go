package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qls/internal/trace"
)

// setupTracing reads the trace settings, attaches a tracer to the command
// context and returns a cleanup function that flushes it. In ring mode the
// buffered events are dumped to stderr on cleanup.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	level, err := trace.ParseLevel(settings.GetString("trace-level"))
	if err != nil {
		return nil, nil, err
	}
	output := settings.GetString("trace")

	// If level is off and no output specified, skip tracing
	if level == trace.LevelOff && output == "" {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}
	if level == trace.LevelOff {
		level = trace.LevelPass
	}

	mode, err := trace.ParseMode(settings.GetString("trace-mode"))
	if err != nil {
		return nil, nil, err
	}
	format, err := trace.ParseFormat(settings.GetString("trace-format"))
	if err != nil {
		return nil, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   settings.GetInt("trace-ring-size"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := ring.Dump(os.Stderr, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
