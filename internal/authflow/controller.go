// Package authflow drives the sign-up, OTP verification, sign-in and
// forgot-password forms. Each submission runs Idle → Submitting → Succeeded
// or Failed, and a request once sent is never cancelled.
package authflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/validation"
)

// Backend is the part of the API client the auth forms need.
type Backend interface {
	Register(ctx context.Context, req api.RegisterRequest) error
	VerifyOTP(ctx context.Context, req api.VerifyOTPRequest) (api.VerifyOTPResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
}

// SignInInput is the sign-in form.
type SignInInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Location string `form:"location" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// VerifyOTPInput is the OTP form. The email comes from the pending registration.
type VerifyOTPInput struct {
	OTP string `form:"otp" validate:"required"`
}

// SignUpResult extends Outcome with the state the OTP step needs.
type SignUpResult struct {
	Outcome
	// Pending is set on success and carried to the OTP step.
	Pending *domain.PendingRegistration
	// Retained holds the entered values to redisplay; empty on success and
	// never containing the password.
	Retained SignUpInput
}

// Controller runs the auth forms against the backend.
type Controller struct {
	backend  Backend
	recorder activity.Recorder
	guard    guard
}

// New creates a Controller. A nil recorder discards activity events.
func New(backend Backend, recorder activity.Recorder) *Controller {
	if recorder == nil {
		recorder = activity.Nop{}
	}
	return &Controller{backend: backend, recorder: recorder}
}

func (c *Controller) busy(form Form) Outcome {
	return failed(form, MsgSubmitInProgress, ErrSubmitInProgress)
}

func invalid(form Form, err error) Outcome {
	out := failed(form, "", err)
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		out.Message = valErr.Message()
		out.FieldErrors = valErr.Fields()
	}
	return out
}

// SignIn submits the sign-in form. On success the credential is stored and
// Redirect points at the dashboard for the user's role. On failure any
// existing credential is left untouched.
func (c *Controller) SignIn(ctx context.Context, clientID string, store credentials.Store, in SignInInput) Outcome {
	release, ok := c.guard.acquire(FormSignIn, clientID)
	if !ok {
		return c.busy(FormSignIn)
	}
	defer release()

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Validate(in); err != nil {
		return invalid(FormSignIn, err)
	}

	resp, err := c.backend.Login(ctx, api.LoginRequest{Email: in.Email, Password: in.Password})
	if err != nil {
		c.recorder.Record(ctx, activity.Event{Kind: activity.SignInFailed, Email: in.Email})
		return failed(FormSignIn, signInMessage(err), err)
	}
	if strings.TrimSpace(resp.Token) == "" {
		c.recorder.Record(ctx, activity.Event{Kind: activity.SignInFailed, Email: in.Email, Detail: "no token"})
		return failed(FormSignIn, MsgSignInFailed, errors.New("login response carried no token"))
	}

	cred := domain.Credential{Token: resp.Token, User: resp.User}
	if cred.User.Email == "" {
		cred.User.Email = in.Email
	}
	if err := store.Set(ctx, cred); err != nil {
		slog.ErrorContext(ctx, "Failed to store credential", "error", err)
		return failed(FormSignIn, MsgCredentialNotSaved, err)
	}

	c.recorder.Record(ctx, activity.Event{Kind: activity.SignedIn, Email: cred.User.Email, Role: string(cred.User.Role)})
	return Outcome{
		Form:     FormSignIn,
		State:    Succeeded,
		Redirect: domain.HomeFor(cred.User.Role),
	}
}

// signInMessage prefers the server's "message" field over "error".
func signInMessage(err error) string {
	if errors.Is(err, api.ErrNetwork) {
		return api.NetworkMessage
	}
	var rej *api.RejectedError
	if errors.As(err, &rej) {
		if msg := rej.MessagePreferringMessage(); msg != "" {
			return msg
		}
	}
	return MsgSignInFailed
}

// errorFieldOr returns the server's "error" field, or fallback.
func errorFieldOr(err error, fallback string) string {
	if errors.Is(err, api.ErrNetwork) {
		return api.NetworkMessage
	}
	var rej *api.RejectedError
	if errors.As(err, &rej) && rej.ErrorField != "" {
		return rej.ErrorField
	}
	return fallback
}

// SignUp submits the registration form. On success the result carries the
// pending registration and Redirect points at the OTP step.
func (c *Controller) SignUp(ctx context.Context, clientID string, in SignUpInput) SignUpResult {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Location = strings.TrimSpace(in.Location)

	retained := in
	retained.Password = ""

	release, ok := c.guard.acquire(FormSignUp, clientID)
	if !ok {
		return SignUpResult{Outcome: c.busy(FormSignUp), Retained: retained}
	}
	defer release()

	if err := validation.Validate(in); err != nil {
		return SignUpResult{Outcome: invalid(FormSignUp, err), Retained: retained}
	}

	err := c.backend.Register(ctx, api.RegisterRequest{
		Name:     in.Name,
		Email:    in.Email,
		Location: in.Location,
		Password: in.Password,
	})
	if err != nil {
		return SignUpResult{
			Outcome:  failed(FormSignUp, errorFieldOr(err, MsgRegistrationFailed), err),
			Retained: retained,
		}
	}

	c.recorder.Record(ctx, activity.Event{Kind: activity.RegistrationSubmitted, Email: in.Email})
	return SignUpResult{
		Outcome: Outcome{
			Form:     FormSignUp,
			State:    Succeeded,
			Message:  MsgRegistrationSuccess,
			Redirect: domain.PathOTPVerification,
		},
		Pending: &domain.PendingRegistration{Email: in.Email},
	}
}

// RequirePending checks that the OTP step was reached from a sign-up.
// Without a pending registration the caller redirects to sign in.
func RequirePending(pending *domain.PendingRegistration) Outcome {
	if pending == nil || strings.TrimSpace(pending.Email) == "" {
		return Outcome{Form: FormVerifyOTP, State: Failed, Redirect: domain.PathSignIn, Err: domain.ErrMissingContext}
	}
	return Outcome{Form: FormVerifyOTP, State: Idle}
}

// VerifyOTP submits the OTP for a pending registration. A returned token is
// stored before Redirect points at the user dashboard.
func (c *Controller) VerifyOTP(ctx context.Context, clientID string, store credentials.Store, pending *domain.PendingRegistration, in VerifyOTPInput) Outcome {
	if out := RequirePending(pending); out.Err != nil {
		return out
	}

	release, ok := c.guard.acquire(FormVerifyOTP, clientID)
	if !ok {
		return c.busy(FormVerifyOTP)
	}
	defer release()

	in.OTP = strings.TrimSpace(in.OTP)
	if err := validation.Validate(in); err != nil {
		return invalid(FormVerifyOTP, err)
	}

	resp, err := c.backend.VerifyOTP(ctx, api.VerifyOTPRequest{Email: pending.Email, OTP: in.OTP})
	if err != nil {
		return failed(FormVerifyOTP, errorFieldOr(err, MsgOTPFailed), err)
	}
	if resp.Message != api.OTPVerifiedMessage {
		msg := resp.Error
		if msg == "" {
			msg = MsgOTPFailed
		}
		return failed(FormVerifyOTP, msg, errors.New("otp not verified"))
	}

	if token := strings.TrimSpace(resp.Token); token != "" {
		cred := domain.Credential{Token: token, User: domain.Profile{Email: pending.Email}}
		if err := store.Set(ctx, cred); err != nil {
			slog.ErrorContext(ctx, "Failed to store credential", "error", err)
			return failed(FormVerifyOTP, MsgCredentialNotSaved, err)
		}
	}

	c.recorder.Record(ctx, activity.Event{Kind: activity.OTPVerified, Email: pending.Email})
	return Outcome{
		Form:     FormVerifyOTP,
		State:    Succeeded,
		Redirect: domain.PathDashboard,
	}
}

// SignOut clears the stored credential.
func (c *Controller) SignOut(ctx context.Context, store credentials.Store) error {
	cred, _ := store.Get(ctx)
	if err := store.Clear(ctx); err != nil {
		return err
	}
	c.recorder.Record(ctx, activity.Event{Kind: activity.SignedOut, Email: cred.User.Email})
	return nil
}
