package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"noteboard/internal/application/commands"
)

var renameCmd = &cobra.Command{
	Use:   "rename <resource> <name>",
	Short: "Rename a folder or note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := locatorArg(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewRenameCommand(GetNamespace(), target, args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <resource> <index>",
	Short: "Move a resource to another position among its siblings",
	Long: `Move a resource to another index under the same parent. The siblings
in between shift by one.

Example:
  noteboard-cli reorder note:12 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := locatorArg(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}

		result, err := commands.NewReorderCommand(GetNamespace(), target, index).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:     "mv <resource> <destination>",
	Aliases: []string{"move", "transfer"},
	Short:   "Move a resource into another folder",
	Long: `Move a folder or note under another folder, or to the top level with /.
It is appended after the destination's children. A folder cannot be moved
inside itself.

Examples:
  noteboard-cli mv note:12 folder:3
  noteboard-cli mv folder:5 /`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := locatorArg(args[0])
		if err != nil {
			return err
		}
		dest, err := locatorArg(args[1])
		if err != nil {
			return err
		}

		result, err := commands.NewTransferCommand(GetNamespace(), target, dest).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(reorderCmd)
	rootCmd.AddCommand(moveCmd)
}
