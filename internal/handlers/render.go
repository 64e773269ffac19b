package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/middleware"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/nfrund/wastewise/web/src/templates/layouts"
	g "maragu.dev/gomponents"
)

// pageFor starts the layout for a page, consuming the pending flashes.
func pageFor(c echo.Context, title string, user *domain.Profile) layouts.Page {
	return layouts.Page{Title: title, Flashes: view.GetFlashData(c), User: user}
}

// withError adds an inline error banner to the page.
func withError(p layouts.Page, msg string) layouts.Page {
	if msg != "" {
		p.Flashes.Error = append(p.Flashes.Error, msg)
	}
	return p
}

// render writes content inside the base layout. Failed form submissions are
// rendered with 200 too so htmx swaps them in.
func render(c echo.Context, p layouts.Page, content g.Node) error {
	return c.Render(http.StatusOK, "", layouts.Base(p, view.Templ(content)))
}

// seeOther is the redirect after a POST and for navigation decisions.
func seeOther(c echo.Context, target string) error {
	return c.Redirect(http.StatusSeeOther, target)
}

// backendContext detaches a backend call from the inbound request, so a
// client navigating away never aborts a call already sent.
func backendContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

// gone reports whether the client left while a backend call ran. The caller
// drops the result instead of writing to a closed connection.
func gone(c echo.Context) bool {
	ctx := c.Request().Context()
	if err := ctx.Err(); err != nil {
		middleware.FromContext(ctx).Debug("Client went away, dropping result", "path", c.Path(), "error", err)
		return true
	}
	return false
}

// storedUser is the profile kept with the credential, for the navigation bar.
func storedUser(c echo.Context) *domain.Profile {
	cred, ok := credentials.NewSessionStore(c).Get(c.Request().Context())
	if !ok {
		return nil
	}
	return &cred.User
}
