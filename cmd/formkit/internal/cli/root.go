// Package cli implements the formkit CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root formkit command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formkit",
		Short:         "formkit - inspect and exercise declarative form schemas",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(NewInspectCmd())
	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewSimulateCmd())
	return root
}
