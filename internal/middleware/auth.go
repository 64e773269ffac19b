package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
)

// GuestOnly sends a browser that already holds a credential to the home page
// for its role instead of showing the sign-in and sign-up forms.
func GuestOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		store := credentials.NewSessionStore(c)
		if cred, ok := store.Get(c.Request().Context()); ok {
			return c.Redirect(http.StatusSeeOther, domain.HomeFor(cred.User.Role))
		}
		return next(c)
	}
}
