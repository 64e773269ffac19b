package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/nfrund/wastewise/internal/bootstrap"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/spf13/cobra"
)

const msgPendingApproval = "Your account is pending approval. Some features are unavailable until an administrator approves it."

var dashboardFormat string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your dashboard",
	Long: `Fetch your profile and dashboard from the service.

Administrators see the admin overview: every user, payment and complaint.
Nothing is cached; each run asks the service again.

Output formats:
  table - Human-readable tables (default)
  json  - The dashboard as returned by the service`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := checkFormat(dashboardFormat); err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	res := s.deps.Bootstrap.Run(cmd.Context(), s.store)
	w := cmd.OutOrStdout()
	switch res.State {
	case bootstrap.RedirectSignIn:
		return signedOutError(res.Err)
	case bootstrap.ErrorDisplayed:
		return errors.New(res.Message)
	case bootstrap.PendingNotice:
		printHeading(w, greeting(res.Profile))
		printNotice(w, msgPendingApproval)
		return nil
	}

	if dashboardFormat == formatJSON {
		return printJSON(w, res.Snapshot)
	}
	if res.IsAdmin() {
		printAdminOverview(w, res.Snapshot)
		return nil
	}
	printUserDashboard(w, res.Snapshot)
	return nil
}

func greeting(p *domain.Profile) string {
	if p == nil || p.Name == "" {
		return "Welcome"
	}
	return "Welcome, " + p.Name
}

func printUserDashboard(w io.Writer, snap *domain.DashboardSnapshot) {
	printHeading(w, greeting(snap.User))
	if snap.Message != "" {
		fmt.Fprintln(w, snap.Message)
	}
	if snap.User != nil && snap.User.PaymentStatus != "" {
		fmt.Fprintf(w, "Payment status: %s\n", view.Label(snap.User.PaymentStatus))
	}

	printHeading(w, "Payment history")
	printTable(w, []string{"Date", "Amount", "Status"}, paymentRows(snap.Payments, false), "No payments yet.")
	printHeading(w, "Collection schedule")
	printTable(w, []string{"Date", "Time", "Location", "Type", "Notes"}, scheduleRows(snap.CollectionSchedules), "No collections scheduled.")
	printHeading(w, "Your complaints")
	printTable(w, []string{"Type", "Description", "Status", "Filed"}, complaintRows(snap.Complaints, false), "You have not filed any complaints.")
}

func printAdminOverview(w io.Writer, snap *domain.DashboardSnapshot) {
	printHeading(w, "Admin dashboard")
	if snap.Message != "" {
		fmt.Fprintln(w, snap.Message)
	}
	open := len(snap.ComplaintsByStatus(domain.ComplaintPending)) + len(snap.ComplaintsByStatus(domain.ComplaintInProgress))
	printTable(w, []string{"Users", "Pending approval", "Payments", "Open complaints"}, [][]string{{
		fmt.Sprint(len(snap.Users)),
		fmt.Sprint(len(domain.UsersByStatus(snap.Users, domain.StatusPending))),
		fmt.Sprint(len(snap.Payments)),
		fmt.Sprint(open),
	}}, "")

	printHeading(w, "Payments")
	printTable(w, []string{"User", "Date", "Amount", "Status"}, paymentRows(snap.Payments, true), "No payments recorded.")
	printHeading(w, "Collection schedule")
	printTable(w, []string{"Date", "Time", "Location", "Type", "Notes"}, scheduleRows(snap.CollectionSchedules), "No collections scheduled.")
	printHeading(w, "Complaints")
	printTable(w, []string{"User", "Type", "Description", "Status", "Filed"}, complaintRows(snap.Complaints, true), "No complaints filed.")
}

func paymentRows(payments []domain.Payment, withUser bool) [][]string {
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		row := []string{p.Date, view.Amount(p.Amount), view.Label(p.Status)}
		if withUser {
			row = append([]string{p.UserEmail}, row...)
		}
		rows = append(rows, row)
	}
	return rows
}

func scheduleRows(schedules []domain.CollectionSchedule) [][]string {
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		rows = append(rows, []string{s.Date, s.Time, s.Location, s.Type, s.Notes})
	}
	return rows
}

func complaintRows(complaints []domain.Complaint, withUser bool) [][]string {
	rows := make([][]string, 0, len(complaints))
	for _, c := range complaints {
		row := []string{c.Type, c.Description, view.Label(c.Status), c.CreatedAt}
		if withUser {
			row = append([]string{c.UserEmail}, row...)
		}
		rows = append(rows, row)
	}
	return rows
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringVarP(&dashboardFormat, "format", "f", formatTable, "Output format (table, json)")
}
