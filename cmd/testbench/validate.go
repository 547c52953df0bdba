package main

import (
	"fmt"

	"github.com/aretw0/testbench/internal/presentation/tui"
	"github.com/aretw0/testbench/internal/validator"
	"github.com/aretw0/testbench/pkg/adapters/yaml"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration against the bench",
		Long: `Crawls the bench tree against the configuration and reports missing or
unknown sub-trees, then runs the initialize cascade and prints the resulting
tree. Nothing is connected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.printStats(cmd)

			tree, err := yaml.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := validator.ValidateTree(s.stand, tree); err != nil {
				return err
			}
			if err := s.initialize(tree); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tui.RenderTree(out, s.stand, profileOf(cmd))
			fmt.Fprintln(out, "Configuration is valid! ✅")
			return nil
		},
	}
}
