package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/bootstrap"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/nfrund/wastewise/web/src/templates/pages"
)

// AdminHandler serves the admin panel. Every page runs the admin bootstrap,
// so a non-admin is sent back to the user dashboard.
type AdminHandler struct {
	boot   *bootstrap.Controller
	recent RecentActivity
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(boot *bootstrap.Controller, recent RecentActivity) *AdminHandler {
	return &AdminHandler{boot: boot, recent: recent}
}

// ready runs the admin bootstrap. When it returns false the response has
// been handled and the caller returns err.
func (h *AdminHandler) ready(c echo.Context) (res bootstrap.Result, ok bool, err error) {
	res = h.boot.RunAdmin(backendContext(c), credentials.NewSessionStore(c))
	if gone(c) {
		return res, false, nil
	}
	if res.State != bootstrap.Ready || res.Redirect != "" {
		return res, false, renderNotReady(c, res)
	}
	return res, true, nil
}

// OverviewGet renders the admin dashboard (GET /admin/dashboard).
func (h *AdminHandler) OverviewGet(c echo.Context) error {
	res, ok, err := h.ready(c)
	if !ok {
		return err
	}
	return render(c, pageFor(c, "Admin dashboard", res.Profile), pages.AdminOverview(pages.AdminOverviewData{
		Snapshot: res.Snapshot,
		Recent:   h.recent.Recent(),
	}))
}

// UsersGet lists the accounts (GET /admin/users). ?status= filters and
// ?edit= opens the edit form of one user.
func (h *AdminHandler) UsersGet(c echo.Context) error {
	res, ok, err := h.ready(c)
	if !ok {
		return err
	}

	users, act := h.boot.ListUsers(backendContext(c), credentials.NewSessionStore(c))
	if gone(c) {
		return nil
	}
	if act.Redirect != "" {
		return seeOther(c, act.Redirect)
	}

	data := pages.AdminUsersData{
		Users:  users,
		Filter: domain.AccountStatus(statusFilter(c)),
		EditID: c.QueryParam("edit"),
	}
	if !act.Success {
		data.Error = act.Banner
	}
	return render(c, pageFor(c, "Users", res.Profile), pages.AdminUsers(data))
}

// UserUpdatePost saves the edit form (POST /admin/users/:id).
func (h *AdminHandler) UserUpdatePost(c echo.Context) error {
	id := c.Param("id")
	var update domain.UserUpdate
	if err := bind(c, &update); err != nil {
		return err
	}

	act := h.boot.UpdateUser(backendContext(c), credentials.NewSessionStore(c), id, update)
	if gone(c) {
		return nil
	}
	if act.Redirect != "" {
		return seeOther(c, act.Redirect)
	}
	if !act.Success {
		view.SetFlashError(c, act.Banner)
		return seeOther(c, domain.PathAdminUsers+"?edit="+id)
	}
	view.SetFlashSuccess(c, act.Banner)
	return seeOther(c, domain.PathAdminUsers)
}

// UserDeletePost removes an account (POST /admin/users/:id/delete).
func (h *AdminHandler) UserDeletePost(c echo.Context) error {
	act := h.boot.DeleteUser(backendContext(c), credentials.NewSessionStore(c), c.Param("id"))
	if gone(c) {
		return nil
	}
	if act.Redirect != "" {
		return seeOther(c, act.Redirect)
	}
	if act.Success {
		view.SetFlashSuccess(c, act.Banner)
	} else {
		view.SetFlashError(c, act.Banner)
	}
	return seeOther(c, domain.PathAdminUsers)
}

// PaymentsGet lists the payments of the admin snapshot.
func (h *AdminHandler) PaymentsGet(c echo.Context) error {
	res, ok, err := h.ready(c)
	if !ok {
		return err
	}
	return render(c, pageFor(c, "Payments", res.Profile), pages.AdminPayments(res.Snapshot))
}

// ScheduleGet lists the collection schedule of the admin snapshot.
func (h *AdminHandler) ScheduleGet(c echo.Context) error {
	res, ok, err := h.ready(c)
	if !ok {
		return err
	}
	return render(c, pageFor(c, "Collection schedule", res.Profile), pages.AdminSchedule(res.Snapshot))
}

// ComplaintsGet lists the complaints of the admin snapshot, filtered by
// ?status=.
func (h *AdminHandler) ComplaintsGet(c echo.Context) error {
	res, ok, err := h.ready(c)
	if !ok {
		return err
	}
	return render(c, pageFor(c, "Complaints", res.Profile), pages.AdminComplaints(pages.AdminComplaintsData{
		Snapshot: res.Snapshot,
		Filter:   domain.ComplaintStatus(statusFilter(c)),
	}))
}
