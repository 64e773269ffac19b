package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/wastewise/internal/app"
	"github.com/nfrund/wastewise/internal/config"
	"github.com/nfrund/wastewise/internal/handlers"
	"github.com/nfrund/wastewise/internal/middleware"
	"github.com/nfrund/wastewise/internal/rendering"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E                *echo.Echo
	Cfg              config.Provider
	deps             *app.Dependencies
	homeHandler      *handlers.HomeHandler
	authHandler      *handlers.AuthHandler
	dashboardHandler *handlers.DashboardHandler
	adminHandler     *handlers.AdminHandler
	healthHandler    *handlers.HealthHandler
}

// New creates a new Server from the resolved application services.
func New(deps *app.Dependencies) *Server {
	cfg := deps.Config

	e := echo.New()
	e.HideBanner = true
	e.Renderer = rendering.NewUniversalRenderer()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "wastewise",
		Subsystem:  "http",
		Registerer: deps.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.GetSessionMaxAge(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(middleware.ClientID)
	e.Use(middleware.Logger)

	return &Server{
		E:                e,
		Cfg:              cfg,
		deps:             deps,
		homeHandler:      handlers.NewHomeHandler(),
		authHandler:      handlers.NewAuthHandler(deps.AuthFlow),
		dashboardHandler: handlers.NewDashboardHandler(deps.Bootstrap, deps.Auditor),
		adminHandler:     handlers.NewAdminHandler(deps.Bootstrap, deps.Auditor),
		healthHandler:    handlers.NewHealthHandler(deps.Client),
	}
}

// setupErrorHandling logs unhandled handler errors with a stack trace before
// echo writes the response. Errors that are already HTTP errors are expected
// and only logged when they wrap an internal cause.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := middleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				logger.Warn("Request failed", "status", he.Code, "error", he.Internal, "path", c.Path())
			}
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		logger.Error("Internal Server Error (Unhandled)",
			slog.Any("error", err),
			slog.String("path", c.Path()),
			slog.String("stack_trace", string(debug.Stack())),
		)
		e.DefaultHTTPErrorHandler(err, c)
	}
}
