package cmd

import (
	"errors"

	"github.com/nfrund/wastewise/internal/bootstrap"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts (admins only)",
	Long: `The users command lists, edits and deletes accounts.

Every subcommand first runs the same checks as the admin pages of the web
front-end: the stored credential must belong to an approved administrator.

Available subcommands:
  list    List accounts, optionally filtered by status
  update  Change the fields of an account
  delete  Remove an account

Use "wastewise users [command] --help" for more information about a specific command.`,
}

// requireAdmin runs the admin entry checks.
func requireAdmin(cmd *cobra.Command, s *session) error {
	res := s.deps.Bootstrap.RunAdmin(cmd.Context(), s.store)
	switch {
	case res.State == bootstrap.RedirectSignIn:
		return signedOutError(res.Err)
	case res.State == bootstrap.ErrorDisplayed:
		return errors.New(res.Message)
	case res.State == bootstrap.PendingNotice:
		return errors.New(msgPendingApproval)
	case res.Redirect != "":
		return errAdminOnly
	}
	return nil
}

// actionError reports a failed admin action.
func actionError(res bootstrap.ActionResult) error {
	if res.Redirect != "" {
		return signedOutError(res.Err)
	}
	if len(res.FieldErrors) > 0 {
		return errors.New(res.Banner + "\n" + formatFieldErrors(res.FieldErrors))
	}
	return errors.New(res.Banner)
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
