package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
)

// Backend paths.
const (
	PathRegister       = "/api/auth/register"
	PathVerifyOTP      = "/api/auth/verify-otp"
	PathLogin          = "/api/auth/login"
	PathProfile        = "/api/dashboard"
	PathAdminSnapshot  = "/api/dashboard/admin"
	PathUserSnapshot   = "/api/dashboard/user"
	PathComplaints     = "/api/dashboard/complaints"
	PathAdminUsers     = "/admin/users"
	routeAdminUserByID = "/admin/users/{id}"
)

// OTPVerifiedMessage is the body message the backend sends on a successful
// OTP verification.
const OTPVerifiedMessage = "OTP verified successfully"

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Password string `json:"password"`
}

// VerifyOTPRequest confirms the email of a pending registration.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTPResponse may carry a token for an immediate session.
type VerifyOTPResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse issues a token and the profile it belongs to.
type LoginResponse struct {
	Token   string         `json:"token"`
	User    domain.Profile `json:"user" validate:"-"`
	Message string         `json:"message,omitempty"`
}

// ProfileResponse is the body of GET /api/dashboard.
type ProfileResponse struct {
	Message string          `json:"message"`
	User    *domain.Profile `json:"user" validate:"required"`
}

// UserList is the body of GET /admin/users. The backend may send either a
// bare array or an object with a "users" field.
type UserList struct {
	Users []domain.AdminUser `json:"users"`
}

// UnmarshalJSON accepts both list shapes.
func (l *UserList) UnmarshalJSON(data []byte) error {
	var bare []domain.AdminUser
	if err := json.Unmarshal(data, &bare); err == nil {
		l.Users = bare
		return nil
	}
	var wrapped struct {
		Users []domain.AdminUser `json:"users"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	l.Users = wrapped.Users
	return nil
}

// Register creates a pending account. The response body is not inspected.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, call{method: http.MethodPost, path: PathRegister, body: req}, nil)
}

// VerifyOTP confirms a registration.
func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (VerifyOTPResponse, error) {
	var out VerifyOTPResponse
	err := c.do(ctx, call{method: http.MethodPost, path: PathVerifyOTP, body: req}, &out)
	return out, err
}

// Login exchanges email and password for a token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, call{method: http.MethodPost, path: PathLogin, body: req}, &out)
	return out, err
}

// Profile fetches the profile of the stored credential.
func (c *Client) Profile(ctx context.Context, store credentials.Store) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, call{method: http.MethodGet, path: PathProfile, store: store}, &out)
	return out, err
}

// AdminSnapshot fetches the admin dashboard payload.
func (c *Client) AdminSnapshot(ctx context.Context, store credentials.Store) (domain.DashboardSnapshot, error) {
	var out domain.DashboardSnapshot
	err := c.do(ctx, call{method: http.MethodGet, path: PathAdminSnapshot, store: store}, &out)
	return out, err
}

// UserSnapshot fetches the user dashboard payload.
func (c *Client) UserSnapshot(ctx context.Context, store credentials.Store) (domain.DashboardSnapshot, error) {
	var out domain.DashboardSnapshot
	err := c.do(ctx, call{method: http.MethodGet, path: PathUserSnapshot, store: store}, &out)
	return out, err
}

// SubmitComplaint files a complaint for the stored credential.
func (c *Client) SubmitComplaint(ctx context.Context, store credentials.Store, draft domain.ComplaintDraft) error {
	return c.do(ctx, call{method: http.MethodPost, path: PathComplaints, body: draft, store: store}, nil)
}

// ListUsers lists every account. The call is bounded by the admin timeout.
func (c *Client) ListUsers(ctx context.Context, store credentials.Store) ([]domain.AdminUser, error) {
	var out UserList
	err := c.do(ctx, call{method: http.MethodGet, path: PathAdminUsers, store: store, bounded: true}, &out)
	return out.Users, err
}

// UpdateUser replaces the editable fields of an account.
func (c *Client) UpdateUser(ctx context.Context, store credentials.Store, id string, update domain.UserUpdate) error {
	return c.do(ctx, call{
		method:  http.MethodPut,
		path:    PathAdminUsers + "/" + url.PathEscape(id),
		route:   routeAdminUserByID,
		body:    update,
		store:   store,
		bounded: true,
	}, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, store credentials.Store, id string) error {
	return c.do(ctx, call{
		method:  http.MethodDelete,
		path:    PathAdminUsers + "/" + url.PathEscape(id),
		route:   routeAdminUserByID,
		store:   store,
		bounded: true,
	}, nil)
}
