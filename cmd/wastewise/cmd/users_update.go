package cmd

import (
	"fmt"

	"github.com/nfrund/wastewise/internal/domain"
	"github.com/spf13/cobra"
)

var userUpdate domain.UserUpdate

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the fields of an account",
	Long: `Change the fields of an account. Flags left unset keep their current value.

Examples:
  wastewise users update u1 --status approved
  wastewise users update u1 --role admin --location Kigali`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersUpdate,
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	if err := requireAdmin(cmd, s); err != nil {
		return err
	}
	users, res := s.deps.Bootstrap.ListUsers(cmd.Context(), s.store)
	if !res.Success {
		return actionError(res)
	}
	idx := -1
	for i, u := range users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no user with id %q", id)
	}

	update := mergeUserUpdate(cmd, users[idx])
	res = s.deps.Bootstrap.UpdateUser(cmd.Context(), s.store, id, update)
	if !res.Success {
		return actionError(res)
	}
	printSuccess(cmd.OutOrStdout(), res.Banner)
	return nil
}

// mergeUserUpdate starts from the current account and applies the flags
// that were set.
func mergeUserUpdate(cmd *cobra.Command, current domain.AdminUser) domain.UserUpdate {
	update := domain.UserUpdate{
		FullName:      current.FullName,
		Email:         current.Email,
		Location:      current.Location,
		AccountStatus: current.AccountStatus,
		Role:          current.Role,
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		update.FullName = userUpdate.FullName
	}
	if flags.Changed("email") {
		update.Email = userUpdate.Email
	}
	if flags.Changed("location") {
		update.Location = userUpdate.Location
	}
	if flags.Changed("status") {
		update.AccountStatus = userUpdate.AccountStatus
	}
	if flags.Changed("role") {
		update.Role = userUpdate.Role
	}
	return update
}

func init() {
	usersCmd.AddCommand(usersUpdateCmd)

	f := usersUpdateCmd.Flags()
	f.StringVar(&userUpdate.FullName, "name", "", "Full name")
	f.StringVar(&userUpdate.Email, "email", "", "Email address")
	f.StringVar(&userUpdate.Location, "location", "", "Location")
	f.StringVar((*string)(&userUpdate.AccountStatus), "status", "", "Account status (pending, approved, rejected, suspended)")
	f.StringVar((*string)(&userUpdate.Role), "role", "", "Role (user, admin)")
}
