package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/internal/presets"
	"github.com/aretw0/onboard/pkg/adapters/file"
	"github.com/aretw0/onboard/pkg/adapters/memory"
	"github.com/aretw0/onboard/pkg/ports"
	"github.com/spf13/cobra"
)

// flowSource serves the flows in --dir, or the bundled presets when unset.
func flowSource(cmd *cobra.Command) ports.FlowLoader {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		return presets.NewLoader()
	}
	return file.NewLoader(dir)
}

// serverLogger writes to stderr; stdout may carry a protocol (MCP stdio).
func serverLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	format := logging.FormatText
	if f, _ := cmd.Flags().GetString("log-format"); f == string(logging.FormatJSON) {
		format = logging.FormatJSON
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, format)
}

// sweepSessions drops expired sessions every interval until ctx is done.
func sweepSessions(ctx context.Context, store *memory.Store, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}
