package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/spf13/cobra"
)

var (
	usersListFormat string
	usersListStatus string
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Long: `List the accounts known to the service.

Examples:
  wastewise users list                     # All accounts
  wastewise users list --status pending    # Accounts awaiting approval
  wastewise users list --format json`,
	RunE: runUsersList,
}

func runUsersList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(usersListFormat); err != nil {
		return err
	}
	status, err := parseAccountStatus(usersListStatus)
	if err != nil {
		return err
	}

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
	users = domain.UsersByStatus(users, status)

	w := cmd.OutOrStdout()
	if usersListFormat == formatJSON {
		return printJSON(w, users)
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.FullName, u.Email, u.Location, view.Label(u.AccountStatus), view.Label(u.Role)})
	}
	printTable(w, []string{"ID", "Name", "Email", "Location", "Status", "Role"}, rows, "No users match this filter.")
	return nil
}

// parseAccountStatus accepts a status in any case. Empty means all.
func parseAccountStatus(raw string) (domain.AccountStatus, error) {
	status := domain.AccountStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if status == "" || slices.Contains(domain.AccountStatuses, status) {
		return status, nil
	}
	return "", fmt.Errorf("unknown status %q: use pending, approved, rejected or suspended", raw)
}

func init() {
	usersCmd.AddCommand(usersListCmd)

	usersListCmd.Flags().StringVarP(&usersListFormat, "format", "f", formatTable, "Output format (table, json)")
	usersListCmd.Flags().StringVarP(&usersListStatus, "status", "s", "", "Filter by account status")
}
