package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/domain"
)

// resetStepCode marks the code phase of the forgot-password form.
const resetStepCode = "code"

// bind decodes the submitted form into dst.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed form submission.").SetInternal(err)
	}
	return nil
}

// draftValues keeps a complaint draft across the redirect after a failed
// submission.
func draftValues(d domain.ComplaintDraft) map[string]string {
	return map[string]string{"type": string(d.Type), "description": d.Description}
}

// draftFrom restores a draft kept by draftValues. Without one it is the
// default empty draft.
func draftFrom(values map[string]string) domain.ComplaintDraft {
	if values["type"] == "" && values["description"] == "" {
		return domain.NewComplaintDraft()
	}
	return domain.ComplaintDraft{
		Type:        domain.ComplaintType(values["type"]),
		Description: values["description"],
	}
}

// statusFilter reads the ?status= query used by the admin lists.
func statusFilter(c echo.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
}
