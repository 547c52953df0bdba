package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/testbench"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of testbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "testbench version %s\n", strings.TrimSpace(testbench.Version))
		},
	}
}
