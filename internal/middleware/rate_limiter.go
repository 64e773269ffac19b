package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// DefaultAuthRate is the sustained number of form submissions per second
// allowed from one IP address.
const DefaultAuthRate rate.Limit = 10

// RateLimiter limits the requests to the routes it is applied to, per IP
// address. A non-positive limit selects DefaultAuthRate.
func RateLimiter(limit rate.Limit) echo.MiddlewareFunc {
	if limit <= 0 {
		limit = DefaultAuthRate
	}
	config := middleware.RateLimiterConfig{
		// In-memory counts are enough for a single instance.
		Store: middleware.NewRateLimiterMemoryStore(limit),

		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "ip", identifier)
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
