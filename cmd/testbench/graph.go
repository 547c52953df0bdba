package main

import (
	"fmt"

	"github.com/aretw0/testbench/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Export the bench as a Mermaid diagram",
		Long:  `Initializes the bench and prints a Mermaid flowchart of the tree. Inactive nodes are greyed out.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.printStats(cmd)
			if err := s.load(opts.configPath); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(s.stand))
			return nil
		},
	}
}
