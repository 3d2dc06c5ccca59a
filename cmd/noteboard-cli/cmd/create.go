package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"noteboard/internal/application/commands"
)

var createParent string

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder",
	Long: `Create a folder at the end of its parent's children.

Examples:
  noteboard-cli mkdir Projects
  noteboard-cli mkdir Drafts --in folder:3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := locatorArg(createParent)
		if err != nil {
			return err
		}

		result, err := commands.NewCreateFolderCommand(GetNamespace(), parent, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		fmt.Fprintf(out, "token: %s\n", result.Folder.Token)
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a note",
	Long: `Create a note, with its room, at the end of its parent's children.
Without a name the note is called Note<N> after the first free number.

Examples:
  noteboard-cli new
  noteboard-cli new "Shopping list" --in folder:3`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := locatorArg(createParent)
		if err != nil {
			return err
		}
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		result, err := commands.NewCreateNoteCommand(GetNamespace(), parent, name).Execute(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		fmt.Fprintf(out, "token: %s\n", result.Note.Token)
		fmt.Fprintf(out, "room: %s\n", result.Room.Name)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{mkdirCmd, newCmd} {
		c.Flags().StringVar(&createParent, "in", "", "parent folder (default: top level)")
		rootCmd.AddCommand(c)
	}
}
