package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/web/src/templates/pages"
)

// HomeHandler serves the public informational pages.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet handles the GET request for the landing page.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	return render(c, pageFor(c, "Welcome", storedUser(c)), pages.Landing())
}

// VerificationPendingGet explains that the account awaits approval.
func (h *HomeHandler) VerificationPendingGet(c echo.Context) error {
	return render(c, pageFor(c, "Verification pending", storedUser(c)), pages.VerificationPending())
}
