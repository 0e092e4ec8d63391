package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/formkit/pkg/schema"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "validate <schema-file>...",
		Short:        "Check schema files for well-formedness",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if _, err := schema.Load(path); err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d schema files failed validation", failed, len(args))
			}
			return nil
		},
	}
}
