package server

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/middleware"
	"github.com/nfrund/wastewise/web"
	"golang.org/x/time/rate"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter(rate.Limit(s.Cfg.GetAuthRateLimit()))

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.E.GET("/health", s.healthHandler.HealthGet)
	s.E.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: s.deps.Registry}))

	s.E.GET(domain.PathLanding, s.homeHandler.HomeGet)
	s.E.GET(domain.PathVerificationPending, s.homeHandler.VerificationPendingGet)

	s.E.GET(domain.PathSignIn, s.authHandler.SignInGet, middleware.GuestOnly)
	s.E.POST(domain.PathSignIn, s.authHandler.SignInPost, rateLimiter)

	s.E.GET(domain.PathSignUp, s.authHandler.SignUpGet, middleware.GuestOnly)
	s.E.POST(domain.PathSignUp, s.authHandler.SignUpPost, rateLimiter)

	s.E.GET(domain.PathOTPVerification, s.authHandler.OTPGet)
	s.E.POST(domain.PathOTPVerification, s.authHandler.OTPPost, rateLimiter)

	s.E.GET(domain.PathForgotPassword, s.authHandler.ForgotPasswordGet)
	s.E.POST(domain.PathForgotPassword, s.authHandler.ForgotPasswordPost, rateLimiter)

	s.E.GET(domain.PathLogout, s.authHandler.Logout)
	s.E.POST(domain.PathLogout, s.authHandler.Logout)

	s.E.GET(domain.PathDashboard, s.dashboardHandler.DashboardGet)
	s.E.POST(domain.PathComplaints, s.dashboardHandler.ComplaintPost)

	admin := s.E.Group("/admin")
	admin.GET("/dashboard", s.adminHandler.OverviewGet)
	admin.GET("/users", s.adminHandler.UsersGet)
	admin.POST("/users/:id", s.adminHandler.UserUpdatePost)
	admin.POST("/users/:id/delete", s.adminHandler.UserDeletePost)
	admin.GET("/payments", s.adminHandler.PaymentsGet)
	admin.GET("/schedule", s.adminHandler.ScheduleGet)
	admin.GET("/complaints", s.adminHandler.ComplaintsGet)
}
