package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"noteboard/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:     "rm <resource>",
	Aliases: []string{"delete"},
	Short:   "Delete a folder or note",
	Long: `Delete a folder with everything inside it, or a single note. The
remaining siblings close the gap.

Examples:
  noteboard-cli rm note:12
  noteboard-cli rm folder:3@<token>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := locatorArg(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewDeleteCommand(GetNamespace(), target).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
