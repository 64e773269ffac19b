package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/bootstrap"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/handlers"
	"github.com/nfrund/wastewise/internal/middleware"
	"github.com/nfrund/wastewise/internal/rendering"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// fakeBackend stands in for the waste-management service.
type fakeBackend struct {
	mu     sync.Mutex
	hits   map[string]int
	bodies map[string][]byte
	routes map[string]http.HandlerFunc
}

func (fb *fakeBackend) reply(method, path string, status int, body any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

func (fb *fakeBackend) count(method, path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[method+" "+path]
}

func (fb *fakeBackend) body(method, path string) []byte {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.bodies[method+" "+path]
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)
	fb.mu.Lock()
	fb.hits[key]++
	fb.bodies[key] = body
	h, ok := fb.routes[key]
	fb.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

type staticActivity []activity.Event

func (s staticActivity) Recent() []activity.Event { return s }

// browser replays the cookies of earlier responses, the way a browser does.
type browser struct {
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	return b.doWithContext(context.Background(), method, target, form)
}

func (b *browser) doWithContext(ctx context.Context, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body).WithContext(ctx)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return rec
}

func setup(t *testing.T) (*fakeBackend, *browser) {
	t.Helper()
	fb := &fakeBackend{hits: map[string]int{}, bodies: map[string][]byte{}, routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	client := api.New(srv.URL, api.Options{})

	boot := bootstrap.New(client, nil)
	recent := staticActivity{{Kind: activity.SignedIn, Email: "audit@example.com"}}
	home := handlers.NewHomeHandler()
	auth := handlers.NewAuthHandler(authflow.New(client, nil))
	dash := handlers.NewDashboardHandler(boot, recent)
	admin := handlers.NewAdminHandler(boot, recent)
	health := handlers.NewHealthHandler(client)

	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.Use(middleware.ClientID)

	e.GET(domain.PathLanding, home.HomeGet)
	e.GET(domain.PathVerificationPending, home.VerificationPendingGet)
	e.GET("/health", health.HealthGet)
	e.GET(domain.PathSignIn, auth.SignInGet)
	e.POST(domain.PathSignIn, auth.SignInPost)
	e.GET(domain.PathSignUp, auth.SignUpGet)
	e.POST(domain.PathSignUp, auth.SignUpPost)
	e.GET(domain.PathOTPVerification, auth.OTPGet)
	e.POST(domain.PathOTPVerification, auth.OTPPost)
	e.GET(domain.PathForgotPassword, auth.ForgotPasswordGet)
	e.POST(domain.PathForgotPassword, auth.ForgotPasswordPost)
	e.GET(domain.PathLogout, auth.Logout)
	e.GET(domain.PathDashboard, dash.DashboardGet)
	e.POST(domain.PathComplaints, dash.ComplaintPost)
	e.GET(domain.PathAdminDashboard, admin.OverviewGet)
	e.GET(domain.PathAdminUsers, admin.UsersGet)
	e.POST(domain.PathAdminUsers+"/:id", admin.UserUpdatePost)
	e.POST(domain.PathAdminUsers+"/:id/delete", admin.UserDeletePost)
	e.GET(domain.PathAdminPayments, admin.PaymentsGet)
	e.GET(domain.PathAdminSchedule, admin.ScheduleGet)
	e.GET(domain.PathAdminComplaints, admin.ComplaintsGet)

	return fb, &browser{e: e, cookies: map[string]*http.Cookie{}}
}

func user(role, status string) map[string]any {
	return map[string]any{
		"name":          "Ada",
		"email":         "ada@example.com",
		"role":          role,
		"accountStatus": status,
		"paymentStatus": "PAID",
	}
}

// signIn logs the browser in as role through the real sign-in form.
func signIn(t *testing.T, fb *fakeBackend, b *browser, role string) {
	t.Helper()
	fb.reply(http.MethodPost, api.PathLogin, http.StatusOK, map[string]any{"token": "tok-" + role, "user": user(role, "APPROVED")})
	rec := b.do(http.MethodPost, domain.PathSignIn, url.Values{"email": {"ada@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func location(rec *httptest.ResponseRecorder) string {
	return rec.Header().Get(echo.HeaderLocation)
}
