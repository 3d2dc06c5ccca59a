package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"noteboard/internal/application"
	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the whole tree",
	Long: `Display every folder and note, each sibling list in index order.

Example:
  noteboard-cli tree`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := commands.NewTreeCommand(GetNamespace()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(root.Children) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(empty)")
			return nil
		}
		printTree(cmd.OutOrStdout(), root)
		return nil
	},
}

func printTree(w io.Writer, root *application.TreeNode) {
	root.Walk(func(node *domain.TreeNode) {
		if node.IsRootNode() {
			return
		}
		indent := strings.Repeat("  ", node.Depth()-1)
		marker := ""
		if node.Kind == domain.KindFolder {
			marker = "/"
		}
		fmt.Fprintf(w, "%s%d %s%s  (%s)\n", indent, node.Index, node.Name, marker, node.Ref())
	})
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
