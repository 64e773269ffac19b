// Package bootstrap runs the checks every protected page performs on entry:
// the stored credential is validated, the profile is fetched fresh, pending
// accounts are gated, and the dashboard payload for the user's role is
// loaded. It also owns the actions taken from a ready dashboard.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
)

// MsgDashboardFailed is shown when a dashboard fetch fails without a server
// message.
const MsgDashboardFailed = "Failed to load dashboard data"

// Backend is the part of the API client protected pages need.
type Backend interface {
	Profile(ctx context.Context, store credentials.Store) (api.ProfileResponse, error)
	AdminSnapshot(ctx context.Context, store credentials.Store) (domain.DashboardSnapshot, error)
	UserSnapshot(ctx context.Context, store credentials.Store) (domain.DashboardSnapshot, error)
	SubmitComplaint(ctx context.Context, store credentials.Store, draft domain.ComplaintDraft) error
	ListUsers(ctx context.Context, store credentials.Store) ([]domain.AdminUser, error)
	UpdateUser(ctx context.Context, store credentials.Store, id string, update domain.UserUpdate) error
	DeleteUser(ctx context.Context, store credentials.Store, id string) error
}

// State is a step of the bootstrap state machine.
type State int

const (
	CheckCredential State = iota
	FetchProfile
	Gate
	RoleDispatch

	// Terminal states.
	RedirectSignIn
	ErrorDisplayed
	PendingNotice
	Ready
)

func (s State) String() string {
	switch s {
	case CheckCredential:
		return "check_credential"
	case FetchProfile:
		return "fetch_profile"
	case Gate:
		return "gate"
	case RoleDispatch:
		return "role_dispatch"
	case RedirectSignIn:
		return "redirect_sign_in"
	case ErrorDisplayed:
		return "error_displayed"
	case PendingNotice:
		return "pending_notice"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Terminal reports whether the machine stops in s.
func (s State) Terminal() bool {
	return s >= RedirectSignIn
}

// Result is where one bootstrap run ended.
type Result struct {
	State State
	// Message is the error banner for ErrorDisplayed.
	Message string
	// Profile is the freshly fetched profile, set from Gate onwards.
	Profile *domain.Profile
	// Snapshot is set in Ready.
	Snapshot *domain.DashboardSnapshot
	// Redirect is where to navigate instead of rendering.
	Redirect string
	// Trace lists every state visited, terminal state included.
	Trace []State
	Err   error
}

func (r *Result) step(s State) {
	r.State = s
	r.Trace = append(r.Trace, s)
}

// IsAdmin reports whether the run resolved an admin profile.
func (r Result) IsAdmin() bool {
	return r.Profile != nil && r.Profile.Role.IsAdmin()
}

// Controller runs the bootstrap against the backend.
type Controller struct {
	backend  Backend
	recorder activity.Recorder
}

// New creates a Controller. A nil recorder discards activity events.
func New(backend Backend, recorder activity.Recorder) *Controller {
	if recorder == nil {
		recorder = activity.Nop{}
	}
	return &Controller{backend: backend, recorder: recorder}
}

// Run executes the bootstrap once. Nothing is cached between runs: every
// call re-fetches the profile and the role payload.
func (c *Controller) Run(ctx context.Context, store credentials.Store) Result {
	res := &Result{}

	res.step(CheckCredential)
	cred, ok := store.Get(ctx)
	if !ok {
		res.step(RedirectSignIn)
		res.Redirect = domain.PathSignIn
		res.Err = domain.ErrNoCredential
		return *res
	}

	res.step(FetchProfile)
	prof, err := c.backend.Profile(ctx, store)
	if err != nil {
		return c.fail(ctx, store, res, err)
	}
	if prof.User == nil {
		return c.fail(ctx, store, res, &api.DecodeError{Method: "GET", Path: api.PathProfile, Err: errors.New("profile missing")})
	}
	profile := *prof.User
	res.Profile = &profile

	// The stored profile follows the server's view.
	if cred.User != profile {
		if err := store.Set(ctx, domain.Credential{Token: cred.Token, User: profile}); err != nil {
			slog.WarnContext(ctx, "Failed to refresh stored profile", "error", err)
		}
	}

	res.step(Gate)
	if profile.AccountStatus.IsPending() {
		res.step(PendingNotice)
		return *res
	}

	res.step(RoleDispatch)
	var snap domain.DashboardSnapshot
	if profile.Role.IsAdmin() {
		snap, err = c.backend.AdminSnapshot(ctx, store)
	} else {
		snap, err = c.backend.UserSnapshot(ctx, store)
	}
	if err != nil {
		return c.fail(ctx, store, res, err)
	}
	if snap.User == nil {
		snap.User = &profile
	}
	res.Snapshot = &snap
	res.step(Ready)
	return *res
}

// RunAdmin runs the bootstrap for an admin page. A ready non-admin is sent
// to their own dashboard.
func (c *Controller) RunAdmin(ctx context.Context, store credentials.Store) Result {
	res := c.Run(ctx, store)
	if res.State == Ready && !res.IsAdmin() {
		res.Redirect = domain.HomeFor(res.Profile.Role)
	}
	return res
}

func (c *Controller) fail(ctx context.Context, store credentials.Store, res *Result, err error) Result {
	res.Err = err
	if errors.Is(err, api.ErrUnauthorized) {
		c.clear(ctx, store, err)
		res.step(RedirectSignIn)
		res.Redirect = domain.PathSignIn
		return *res
	}
	res.step(ErrorDisplayed)
	res.Message = api.MessageFrom(err, MsgDashboardFailed)
	return *res
}

// clear drops the credential after the backend rejected it.
func (c *Controller) clear(ctx context.Context, store credentials.Store, cause error) {
	cred, _ := store.Get(ctx)
	if err := store.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to clear rejected credential", "error", err)
		return
	}
	c.recorder.Record(ctx, activity.Event{
		Kind:   activity.CredentialCleared,
		Email:  cred.User.Email,
		Role:   string(cred.User.Role),
		Detail: cause.Error(),
	})
}
