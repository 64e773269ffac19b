package pages

import (
	"strings"

	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/nfrund/wastewise/web/src/templates/components"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// DashboardData is everything the user dashboard renders.
type DashboardData struct {
	Profile *domain.Profile
	// Snapshot is nil unless the dashboard loaded.
	Snapshot *domain.DashboardSnapshot
	// Pending shows the awaiting-approval notice instead of the data.
	Pending bool
	// Error replaces the dashboard with a failure banner.
	Error       string
	Draft       domain.ComplaintDraft
	FieldErrors map[string]string
}

// Dashboard is the user dashboard.
func Dashboard(d DashboardData) g.Node {
	switch {
	case d.Error != "":
		return Div(Class("dashboard"),
			H1(g.Text("Dashboard")),
			components.Alert("error", d.Error),
			A(Class("btn"), Href(domain.PathDashboard), g.Text("Try again")),
		)
	case d.Pending:
		return Div(Class("dashboard"),
			H1(g.Text(greeting(d.Profile))),
			components.Alert("info", "Your account is pending approval. Some features are unavailable until an administrator approves it."),
		)
	case d.Snapshot == nil:
		return Div(Class("dashboard"), H1(g.Text("Dashboard")))
	}

	snap := d.Snapshot
	profile := d.Profile
	if snap.User != nil {
		profile = snap.User
	}
	return Div(Class("dashboard"),
		H1(g.Text(greeting(profile))),
		g.If(snap.Message != "", P(Class("lead"), g.Text(snap.Message))),
		paymentStatus(profile),
		components.Card("Payment history",
			components.Table([]string{"Date", "Amount", "Status"}, paymentRows(snap.Payments, false), "No payments yet."),
		),
		components.Card("Collection schedule",
			components.Table([]string{"Date", "Time", "Location", "Type", "Notes"}, scheduleRows(snap.CollectionSchedules), "No collections scheduled."),
		),
		components.Card("Your complaints",
			components.Table([]string{"Type", "Description", "Status", "Filed"}, complaintRows(snap.Complaints, false), "You have not filed any complaints."),
		),
		components.Card("File a complaint", complaintForm(d.Draft, d.FieldErrors)),
	)
}

func greeting(p *domain.Profile) string {
	if p == nil || p.Name == "" {
		return "Welcome"
	}
	return "Welcome, " + p.Name
}

func paymentStatus(p *domain.Profile) g.Node {
	if p == nil || p.PaymentStatus == "" {
		return nil
	}
	variant := "warning"
	if p.HasPaid() {
		variant = "success"
	}
	return P(Class("payment-status"), g.Text("Payment status: "), components.Badge(view.Label(p.PaymentStatus), variant))
}

func complaintForm(draft domain.ComplaintDraft, fieldErrors map[string]string) g.Node {
	if draft.Type == "" {
		draft = domain.NewComplaintDraft()
	}
	options := make([]components.Option, 0, len(domain.ComplaintTypes))
	for _, t := range domain.ComplaintTypes {
		options = append(options, components.Option{Value: string(t), Label: string(t)})
	}
	return components.Form(domain.PathComplaints,
		components.Select(components.SelectProps{
			Label:    "Type",
			Name:     "type",
			Options:  options,
			Selected: string(draft.Type),
			Error:    fieldErrors["type"],
		}),
		Div(Class("field"),
			Label(For("description"), g.Text("Description")),
			Textarea(ID("description"), Name("description"), Rows("4"), Required(), g.Text(draft.Description)),
			components.FieldError(fieldErrors["description"]),
		),
		components.Submit("Submit complaint"),
	)
}

func paymentRows(payments []domain.Payment, withUser bool) []g.Node {
	rows := make([]g.Node, 0, len(payments))
	for _, p := range payments {
		variant := "warning"
		if p.Status == domain.PaymentPaid {
			variant = "success"
		}
		rows = append(rows, Tr(
			g.If(withUser, Td(g.Text(p.UserEmail))),
			Td(g.Text(p.Date)),
			Td(g.Text(view.Amount(p.Amount))),
			Td(components.Badge(view.Label(p.Status), variant)),
		))
	}
	return rows
}

func scheduleRows(schedules []domain.CollectionSchedule) []g.Node {
	rows := make([]g.Node, 0, len(schedules))
	for _, s := range schedules {
		rows = append(rows, components.Cells(s.Date, s.Time, s.Location, s.Type, s.Notes))
	}
	return rows
}

func complaintRows(complaints []domain.Complaint, withUser bool) []g.Node {
	rows := make([]g.Node, 0, len(complaints))
	for _, c := range complaints {
		rows = append(rows, Tr(
			g.If(withUser, Td(g.Text(c.UserEmail))),
			Td(g.Text(c.Type)),
			Td(g.Text(c.Description)),
			Td(components.Badge(view.Label(c.Status), strings.ToLower(string(c.Status)))),
			Td(g.Text(c.CreatedAt)),
		))
	}
	return rows
}
