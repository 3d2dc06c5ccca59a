package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"noteboard/internal/application"
	"noteboard/internal/application/commands"
)

var (
	listSort    string
	listReverse bool
)

var listCmd = &cobra.Command{
	Use:     "ls [folder]",
	Aliases: []string{"list"},
	Short:   "List the children of a folder",
	Long: `List the direct children of a folder, or of the top level when no
folder is given.

Examples:
  noteboard-cli ls
  noteboard-cli ls folder:3
  noteboard-cli ls <token> --sort name`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var parent application.Locator
		if len(args) == 1 {
			var err error
			if parent, err = locatorArg(args[0]); err != nil {
				return err
			}
		}

		listCmd := commands.NewListChildrenCommand(GetNamespace(), parent, listSort)
		listCmd.Reverse = listReverse
		children, err := listCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		for _, r := range children {
			printResource(cmd.OutOrStdout(), r)
		}
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <resource>",
	Short: "Show the folders above a resource",
	Long: `Show the chain of folders from the top level down to the resource.

Example:
  noteboard-cli path note:12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := locatorArg(args[0])
		if err != nil {
			return err
		}
		folders, err := commands.NewAncestorsCommand(GetNamespace(), target).Execute(cmd.Context())
		if err != nil {
			return err
		}

		path := "/"
		for _, f := range folders {
			path += f.Name + "/"
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func printResource(w io.Writer, r application.Resource) {
	fmt.Fprintf(w, "%d  %s  %s  %s\n", r.Index, r.Ref(), r.Name, r.Token)
}

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "", "order by index, name or created")
	listCmd.Flags().BoolVarP(&listReverse, "reverse", "r", false, "reverse the order")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pathCmd)
}
