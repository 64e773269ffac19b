package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	clientSessionName = "wastewise-client"
	clientIDKey       = "client_id"
)

// ClientID gives every browser a stable random identifier, kept in its own
// cookie session. The auth forms use it to refuse a second submission while
// the first is still running. It must run after the session middleware.
func ClientID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(clientSessionName, c)
		if err != nil {
			return next(c)
		}
		id, _ := sess.Values[clientIDKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[clientIDKey] = id
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				FromContext(c.Request().Context()).Warn("Failed to save client id", "error", err)
			}
		}
		c.Set(clientIDKey, id)
		return next(c)
	}
}

// ClientIDFrom returns the identifier set by ClientID, or "" when the
// middleware did not run.
func ClientIDFrom(c echo.Context) string {
	id, _ := c.Get(clientIDKey).(string)
	return id
}
