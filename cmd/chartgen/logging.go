package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// setupLogging attaches a console logger writing to the command's stderr to
// the command context.
func setupLogging(cmd *cobra.Command) error {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("component", "cli").
		Logger()

	cmd.SetContext(logger.WithContext(cmd.Context()))
	logger.Debug().Str("command", cmd.Name()).Msg("command started")
	return nil
}
