package domain

import "strings"

// Role is the authorization role the backend assigns to an account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// IsAdmin reports whether the role grants access to the admin panel.
// The backend has been observed to send both ADMIN and ROLE_ADMIN.
func (r Role) IsAdmin() bool {
	switch strings.ToUpper(strings.TrimSpace(string(r))) {
	case string(RoleAdmin), "ROLE_ADMIN":
		return true
	}
	return false
}

// AccountStatus is the approval state of an account.
type AccountStatus string

const (
	StatusPending   AccountStatus = "PENDING"
	StatusApproved  AccountStatus = "APPROVED"
	StatusRejected  AccountStatus = "REJECTED"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// AccountStatuses lists every status in display order.
var AccountStatuses = []AccountStatus{StatusPending, StatusApproved, StatusRejected, StatusSuspended}

// IsPending reports whether the account still awaits approval.
func (s AccountStatus) IsPending() bool {
	return strings.EqualFold(string(s), string(StatusPending))
}

// Profile is the user profile as reported by the backend.
type Profile struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Location      string        `json:"location,omitempty"`
	Role          Role          `json:"role" validate:"required"`
	AccountStatus AccountStatus `json:"accountStatus"`
	PaymentStatus string        `json:"paymentStatus,omitempty"`
}

// HasPaid reports whether the profile's payment status is settled.
func (p Profile) HasPaid() bool {
	return strings.EqualFold(p.PaymentStatus, string(PaymentPaid))
}

// Credential is the token and profile held by a credential store.
type Credential struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Valid reports whether the credential carries a token.
// A credential with a token but an incomplete profile is still valid;
// the profile is always re-fetched from the backend.
func (c Credential) Valid() bool {
	return strings.TrimSpace(c.Token) != ""
}

// PendingRegistration carries the email of a just-submitted sign-up to the
// OTP verification step. It is never persisted.
type PendingRegistration struct {
	Email string `json:"email"`
}

// Navigation targets shared by the web handlers and the CLI.
const (
	PathLanding             = "/"
	PathSignIn              = "/signin"
	PathSignUp              = "/signup"
	PathOTPVerification     = "/otp-verification"
	PathForgotPassword      = "/forgot-password"
	PathVerificationPending = "/verification-pending"
	PathLogout              = "/logout"
	PathDashboard           = "/dashboard"
	PathComplaints          = "/dashboard/complaints"
	PathAdminDashboard      = "/admin/dashboard"
	PathAdminUsers          = "/admin/users"
	PathAdminPayments       = "/admin/payments"
	PathAdminSchedule       = "/admin/schedule"
	PathAdminComplaints     = "/admin/complaints"
)

// HomeFor returns the landing page after sign-in for the given role.
func HomeFor(r Role) string {
	if r.IsAdmin() {
		return PathAdminDashboard
	}
	return PathDashboard
}
