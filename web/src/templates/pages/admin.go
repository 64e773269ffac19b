package pages

import (
	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/nfrund/wastewise/web/src/templates/components"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// AdminOverviewData is the admin dashboard landing page.
type AdminOverviewData struct {
	Snapshot *domain.DashboardSnapshot
	Recent   []activity.Event
}

// AdminOverview summarizes the admin snapshot and recent activity.
func AdminOverview(d AdminOverviewData) g.Node {
	snap := d.Snapshot
	if snap == nil {
		snap = &domain.DashboardSnapshot{}
	}
	pendingUsers := domain.UsersByStatus(snap.Users, domain.StatusPending)
	openComplaints := len(snap.ComplaintsByStatus(domain.ComplaintPending)) + len(snap.ComplaintsByStatus(domain.ComplaintInProgress))

	return Div(Class("admin"),
		H1(g.Text("Admin dashboard")),
		g.If(snap.Message != "", P(Class("lead"), g.Text(snap.Message))),
		Div(Class("stats"),
			stat("Users", len(snap.Users), domain.PathAdminUsers),
			stat("Pending approval", len(pendingUsers), domain.PathAdminUsers+"?status="+string(domain.StatusPending)),
			stat("Payments", len(snap.Payments), domain.PathAdminPayments),
			stat("Open complaints", openComplaints, domain.PathAdminComplaints),
		),
		components.Card("Recent activity", activityTable(d.Recent)),
	)
}

func stat(label string, n int, href string) g.Node {
	return A(Class("stat"), Href(href),
		Span(Class("stat-value"), g.Textf("%d", n)),
		Span(Class("stat-label"), g.Text(label)),
	)
}

func activityTable(events []activity.Event) g.Node {
	rows := make([]g.Node, 0, len(events))
	// Newest first.
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		rows = append(rows, components.Cells(ev.At.Format("2006-01-02 15:04:05"), view.Label(ev.Kind), ev.Email, ev.Detail))
	}
	return components.Table([]string{"When", "Event", "Account", "Detail"}, rows, "No activity recorded yet.")
}

// AdminUsersData is the user management page.
type AdminUsersData struct {
	Users  []domain.AdminUser
	Filter domain.AccountStatus
	// EditID opens the edit form for one user.
	EditID      string
	Error       string
	FieldErrors map[string]string
}

// AdminUsers lists accounts with a status filter and inline edit and delete.
func AdminUsers(d AdminUsersData) g.Node {
	users := domain.UsersByStatus(d.Users, d.Filter)

	rows := make([]g.Node, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow(u))
		if u.ID == d.EditID {
			rows = append(rows, Tr(Td(g.Attr("colspan", "6"), userEditForm(u, d.FieldErrors))))
		}
	}

	return Div(Class("admin"),
		H1(g.Text("Users")),
		components.Alert("error", d.Error),
		statusFilter(domain.PathAdminUsers, string(d.Filter), accountStatusOptions()),
		components.Table([]string{"Name", "Email", "Location", "Status", "Role", ""}, rows, "No users match this filter."),
	)
}

func userRow(u domain.AdminUser) g.Node {
	return Tr(
		Td(g.Text(u.FullName)),
		Td(g.Text(u.Email)),
		Td(g.Text(u.Location)),
		Td(components.Badge(view.Label(u.AccountStatus), string(u.AccountStatus))),
		Td(g.Text(view.Label(u.Role))),
		Td(Class("row-actions"),
			A(Class("btn btn-small"), Href(domain.PathAdminUsers+"?edit="+u.ID), g.Text("Edit")),
			Form(Method("post"), Action(domain.PathAdminUsers+"/"+u.ID+"/delete"), Class("inline"),
				components.DangerSubmit("Delete", "Delete "+u.Email+"?"),
			),
		),
	)
}

func userEditForm(u domain.AdminUser, fieldErrors map[string]string) g.Node {
	return components.Form(domain.PathAdminUsers+"/"+u.ID,
		components.Field(components.FieldProps{Label: "Full name", Name: "fullName", Value: u.FullName, Error: fieldErrors["fullName"], Required: true}),
		components.Field(components.FieldProps{Label: "Email", Name: "email", Type: "email", Value: u.Email, Error: fieldErrors["email"], Required: true}),
		components.Field(components.FieldProps{Label: "Location", Name: "location", Value: u.Location, Error: fieldErrors["location"]}),
		components.Select(components.SelectProps{
			Label:    "Status",
			Name:     "accountStatus",
			Options:  accountStatusOptions()[1:],
			Selected: string(u.AccountStatus),
			Error:    fieldErrors["accountStatus"],
		}),
		components.Select(components.SelectProps{
			Label:    "Role",
			Name:     "role",
			Options:  []components.Option{{Value: string(domain.RoleUser), Label: "User"}, {Value: string(domain.RoleAdmin), Label: "Admin"}},
			Selected: string(u.Role),
			Error:    fieldErrors["role"],
		}),
		components.Submit("Save"),
		A(Class("btn"), Href(domain.PathAdminUsers), g.Text("Cancel")),
	)
}

// accountStatusOptions lists the filter choices; the first entry is "all".
func accountStatusOptions() []components.Option {
	options := []components.Option{{Value: "", Label: "All"}}
	for _, s := range domain.AccountStatuses {
		options = append(options, components.Option{Value: string(s), Label: view.Label(s)})
	}
	return options
}

func statusFilter(action, selected string, options []components.Option) g.Node {
	return Form(Method("get"), Action(action), Class("filter"),
		components.Select(components.SelectProps{
			Label:      "Status",
			Name:       "status",
			Options:    options,
			Selected:   selected,
			AutoSubmit: true,
		}),
		NoScript(Button(Type("submit"), Class("btn"), g.Text("Filter"))),
	)
}

// AdminPayments lists every payment in the admin snapshot.
func AdminPayments(snap *domain.DashboardSnapshot) g.Node {
	var payments []domain.Payment
	if snap != nil {
		payments = snap.Payments
	}
	return Div(Class("admin"),
		H1(g.Text("Payments")),
		components.Table([]string{"User", "Date", "Amount", "Status"}, paymentRows(payments, true), "No payments recorded."),
	)
}

// AdminSchedule lists the collection schedule in the admin snapshot.
func AdminSchedule(snap *domain.DashboardSnapshot) g.Node {
	var schedules []domain.CollectionSchedule
	if snap != nil {
		schedules = snap.CollectionSchedules
	}
	return Div(Class("admin"),
		H1(g.Text("Collection schedule")),
		components.Table([]string{"Date", "Time", "Location", "Type", "Notes"}, scheduleRows(schedules), "No collections scheduled."),
	)
}

// AdminComplaintsData is the complaints page with its status filter.
type AdminComplaintsData struct {
	Snapshot *domain.DashboardSnapshot
	Filter   domain.ComplaintStatus
}

// AdminComplaints lists complaints filtered by status.
func AdminComplaints(d AdminComplaintsData) g.Node {
	var complaints []domain.Complaint
	if d.Snapshot != nil {
		complaints = d.Snapshot.ComplaintsByStatus(d.Filter)
	}
	options := []components.Option{{Value: "", Label: "All"}}
	for _, s := range domain.ComplaintStatuses {
		options = append(options, components.Option{Value: string(s), Label: view.Label(s)})
	}
	return Div(Class("admin"),
		H1(g.Text("Complaints")),
		statusFilter(domain.PathAdminComplaints, string(d.Filter), options),
		components.Table([]string{"User", "Type", "Description", "Status", "Filed"}, complaintRows(complaints, true), "No complaints match this filter."),
	)
}
