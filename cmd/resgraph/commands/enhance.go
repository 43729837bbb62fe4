package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/resgraph/internal/app"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/ui/output"
)

func (c *CLI) newEnhanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enhance [targets...]",
		Short: "Build the resource graph of android_binary targets",
		Long: "Build the resource graph of the given android_binary targets.\n" +
			"Without targets, every android_binary of the project is enhanced.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			archivePath, _ := cmd.Flags().GetString("archive")
			asJSON, _ := cmd.Flags().GetBool("json")

			report, err := c.app.Enhance(cmd.Context(), app.EnhanceOptions{
				Path:        file,
				Targets:     args,
				ArchivePath: archivePath,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			renderReport(output.New(cmd.OutOrStdout()), report)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Project file, or directory to search for "+domain.ProjectFileName+" from")
	cmd.Flags().StringP("archive", "a", "", "Write the action graph to this zip file")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}
