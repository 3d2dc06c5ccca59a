package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
)

var shareCmd = &cobra.Command{
	Use:   "share <note> <public|editable> <on|off>",
	Short: "Change who can open a note's room",
	Long: `Make a note's room public or private, and allow or forbid visitors to
edit it. Editable rooms are always public; private rooms are never editable.

Examples:
  noteboard-cli share note:12 public on
  noteboard-cli share note:12 editable off`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := locatorArg(args[0])
		if err != nil {
			return err
		}
		value, err := parseSwitch(args[2])
		if err != nil {
			return err
		}

		result, err := commands.NewSetPermissionCommand(GetNamespace(), note, args[1], value).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <note-token> <room>",
	Short: "Open a note through its room",
	Long: `Open a note the way a visitor does: by its token and room name. Without
--owner you visit as a guest and only public rooms open.

Example:
  noteboard-cli open <token> <room>`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		visitor, err := backend.Durable(ctx, domain.Owner(cfg.Owner))
		if err != nil {
			return err
		}

		result, err := commands.NewOpenRoomCommand(visitor, args[0], args[1]).Execute(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		access := "read-only"
		switch {
		case result.IsOwner:
			access = "owner"
		case result.CanEdit:
			access = "editable"
		}
		fmt.Fprintf(out, "%s (%s, opens as %s)\n\n", result.Note.Name, access, result.Note.Display)
		fmt.Fprint(out, result.Text)
		return nil
	},
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}

func init() {
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(openCmd)
}
