package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var usersDeleteConfirmed bool

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an account",
	Long: `Remove an account. The deletion cannot be undone and needs --yes.

Example:
  wastewise users delete u1 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !usersDeleteConfirmed {
			return errors.New("refusing to delete without --yes")
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close(cmd)

		if err := requireAdmin(cmd, s); err != nil {
			return err
		}
		res := s.deps.Bootstrap.DeleteUser(cmd.Context(), s.store, args[0])
		if !res.Success {
			return actionError(res)
		}
		printSuccess(cmd.OutOrStdout(), res.Banner)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersDeleteCmd)

	usersDeleteCmd.Flags().BoolVarP(&usersDeleteConfirmed, "yes", "y", false, "Confirm the deletion")
}
