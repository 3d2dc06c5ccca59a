package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"noteboard/internal/adapters/editor"
	"noteboard/internal/application/commands"
)

var writeCmd = &cobra.Command{
	Use:   "write <note> [text]",
	Short: "Replace the text of a note",
	Long: `Replace the text of a note. Without text (or with -) the new text is
read from standard input.

Examples:
  noteboard-cli write note:12 "milk, eggs"
  cat draft.md | noteboard-cli write note:12`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := locatorArg(args[0])
		if err != nil {
			return err
		}
		var text string
		if len(args) == 2 && args[1] != "-" {
			text = args[1]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read text: %w", err)
			}
			text = string(data)
		}

		result, err := commands.NewSaveTextCommand(GetNamespace(), note, text).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <note>",
	Short: "Print the text of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := locatorArg(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewReadNoteCommand(GetNamespace(), note).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), result.Text)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <note>",
	Short: "Edit the text of a note in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := locatorArg(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		read, err := commands.NewReadNoteCommand(GetNamespace(), note).Execute(ctx)
		if err != nil {
			return err
		}
		text, err := editor.NewOpener().Edit(ctx, read.Text)
		if err != nil {
			return err
		}
		if text == read.Text {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes")
			return nil
		}

		result, err := commands.NewSaveTextCommand(GetNamespace(), note, text).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var canvasBackground string

var canvasCmd = &cobra.Command{
	Use:   "canvas <note> [file]",
	Short: "Read or replace the canvas of a saved note",
	Long: `Print the canvas of a note, replace it from a file (- for standard
input), or change its background with --background.

Examples:
  noteboard-cli canvas note:12 > drawing.json
  noteboard-cli canvas note:12 drawing.json
  noteboard-cli canvas note:12 --background "#1f2937"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := locatorArg(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if cmd.Flags().Changed("background") {
			result, err := commands.NewSetCanvasBackgroundCommand(GetNamespace(), note, canvasBackground).Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result.Message)
			if len(args) == 1 {
				return nil
			}
		}

		if len(args) == 1 {
			result, err := commands.NewReadNoteCommand(GetNamespace(), note).Execute(ctx)
			if err != nil {
				return err
			}
			_, err = out.Write(result.Canvas)
			return err
		}

		var data []byte
		if args[1] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[1])
		}
		if err != nil {
			return fmt.Errorf("failed to read canvas: %w", err)
		}
		result, err := commands.NewSaveCanvasCommand(GetNamespace(), note, data).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

var displayCmd = &cobra.Command{
	Use:   "display <note> <text|canvas>",
	Short: "Choose how a saved note opens in its room",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := locatorArg(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewSetDisplayCommand(GetNamespace(), note, args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	canvasCmd.Flags().StringVar(&canvasBackground, "background", "", "canvas background color")
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(canvasCmd)
	rootCmd.AddCommand(displayCmd)
}
