package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-chartgen/pkg/orchestrator"
)

func newBackendsCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the registered chart backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen := orchestrator.New(d.options...)
			for _, name := range gen.Backends() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
