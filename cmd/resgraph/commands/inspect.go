package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/resgraph/internal/ui/output"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the actions stored in a graph archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			nodes, err := c.app.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), nodes)
			}
			renderActions(output.New(cmd.OutOrStdout()), nodes)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the actions as JSON")
	return cmd
}
