package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/bootstrap"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/nfrund/wastewise/web/src/templates/pages"
)

// RecentActivity supplies the audit trail shown to admins.
type RecentActivity interface {
	Recent() []activity.Event
}

// DashboardHandler serves the dashboard and the complaint form.
type DashboardHandler struct {
	boot   *bootstrap.Controller
	recent RecentActivity
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(boot *bootstrap.Controller, recent RecentActivity) *DashboardHandler {
	return &DashboardHandler{boot: boot, recent: recent}
}

// DashboardGet runs the session bootstrap and renders where it ended. Every
// load fetches the profile and the role payload again.
func (h *DashboardHandler) DashboardGet(c echo.Context) error {
	res := h.boot.Run(backendContext(c), credentials.NewSessionStore(c))
	if gone(c) {
		return nil
	}
	if res.State != bootstrap.Ready {
		return renderNotReady(c, res)
	}

	if res.IsAdmin() {
		return render(c, pageFor(c, "Admin dashboard", res.Profile), pages.AdminOverview(pages.AdminOverviewData{
			Snapshot: res.Snapshot,
			Recent:   h.recent.Recent(),
		}))
	}
	return render(c, pageFor(c, "Dashboard", res.Profile), pages.Dashboard(pages.DashboardData{
		Profile:  res.Profile,
		Snapshot: res.Snapshot,
		Draft:    draftFrom(view.TakeFormValues(c)),
	}))
}

// renderNotReady handles the terminal bootstrap states other than Ready.
func renderNotReady(c echo.Context, res bootstrap.Result) error {
	if res.Redirect != "" {
		return seeOther(c, res.Redirect)
	}
	user := res.Profile
	if user == nil {
		user = storedUser(c)
	}
	switch res.State {
	case bootstrap.PendingNotice:
		return render(c, pageFor(c, "Dashboard", user), pages.Dashboard(pages.DashboardData{Profile: user, Pending: true}))
	default:
		return render(c, pageFor(c, "Dashboard", user), pages.Dashboard(pages.DashboardData{Error: res.Message}))
	}
}

// ComplaintPost files a complaint from the ready dashboard. The draft is
// kept across the redirect when the submission fails.
func (h *DashboardHandler) ComplaintPost(c echo.Context) error {
	var draft domain.ComplaintDraft
	if err := bind(c, &draft); err != nil {
		return err
	}

	res := h.boot.SubmitComplaint(backendContext(c), credentials.NewSessionStore(c), draft)
	if gone(c) {
		return nil
	}
	if res.Redirect != "" {
		return seeOther(c, res.Redirect)
	}
	if res.Success {
		view.SetFlashSuccess(c, res.Banner)
	} else {
		view.SetFlashError(c, res.Banner)
		view.SetFormValues(c, draftValues(res.Draft))
	}
	return seeOther(c, domain.PathDashboard)
}
