package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/go-drift/formkit/pkg/schema"
)

// inspectOutput is the JSON output schema for the inspect command.
type inspectOutput struct {
	Name             string         `json:"name,omitempty"`
	Version          string         `json:"version,omitempty"`
	ShouldUnregister bool           `json:"shouldUnregister"`
	Fields           []schema.Field `json:"fields"`
}

// NewInspectCmd creates the inspect subcommand.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inspect <schema-file>",
		Short:        "Print a schema's field table",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.Load(args[0])
			if err != nil {
				return err
			}

			jsonMode, _ := cmd.Flags().GetBool("json")
			if jsonMode {
				out := inspectOutput{
					Name:             s.Name,
					Version:          s.Version,
					ShouldUnregister: s.ShouldUnregister,
					Fields:           s.Fields,
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tDEFAULT\tDISABLED\tRULES")
			for _, f := range s.Fields {
				rules := ""
				if len(f.Rules) > 0 {
					data, err := json.Marshal(f.Rules)
					if err != nil {
						return fmt.Errorf("encoding rules for %s: %w", f.Path, err)
					}
					rules = string(data)
				}
				disabled := "-"
				if f.Disabled != nil {
					disabled = fmt.Sprintf("%v", *f.Disabled)
				}
				fmt.Fprintf(w, "%s\t%v\t%s\t%s\n", f.Path, f.Default, disabled, rules)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Bool("json", false, "Output the schema as JSON")
	return cmd
}
