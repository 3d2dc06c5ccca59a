package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"noteboard/internal/application/commands"
)

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Save the scratch board into an owner's board",
	Long: `Move every folder and note of the scratch board into the saved board of
--owner, after its existing top-level entries. Without --owner a new owner
is created. Either everything moves or nothing does; on success the
scratch board is emptied.

Example:
  noteboard-cli promote --owner <owner>`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		target, err := backend.PromotionTarget(ctx)
		if err != nil {
			return err
		}

		result, err := commands.NewPromoteCommand(backend.Transient, target).Execute(ctx)
		if err != nil {
			return err
		}
		logger(cmd).Debug().
			Str("owner", string(result.Owner)).
			Int("folders", len(result.Folders)).
			Int("notes", len(result.Notes)).
			Msg("promoted scratch board")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		if cfg.Owner == "" {
			fmt.Fprintf(out, "owner: %s (pass --owner or set NOTEBOARD_OWNER to use it)\n", result.Owner)
		}
		return nil
	},
}

var whoamiNew bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show which board the CLI works on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if whoamiNew {
			owner, err := backend.Store.CreateOwner(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, owner)
			return nil
		}
		if cfg.Owner != "" {
			fmt.Fprintf(out, "owner %s\n", cfg.Owner)
			return nil
		}
		if cfg.RedisURL != "" {
			fmt.Fprintf(out, "scratch board (session %s)\n", cfg.Session)
		} else {
			fmt.Fprintf(out, "scratch board (%s)\n", cfg.SnapshotPath)
		}
		return nil
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiNew, "new", false, "create a new owner and print it")
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(whoamiCmd)
}
