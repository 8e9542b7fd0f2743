package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goliatone/go-chartgen/pkg/orchestrator"
)

// deps holds the pieces tests swap out.
type deps struct {
	stdin       io.Reader
	interactive func() bool
	prompt      func(options []string, fallback string) (string, error)
	options     []orchestrator.Option
}

func defaultDeps() deps {
	return deps{
		stdin: os.Stdin,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		prompt: promptBackend,
	}
}

func newRootCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chartgen",
		Short:         "Render chart payloads into HTML pages",
		Long:          "chartgen mounts each figure of a figures/ids payload into the element with the matching id.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(newRenderCmd(d), newBackendsCmd(d))

	return cmd
}
