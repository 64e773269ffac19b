package handlers

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/middleware"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/nfrund/wastewise/web/src/templates/pages"
)

// MsgSignedOut is the banner after logging out.
const MsgSignedOut = "You have been signed out."

// AuthHandler serves the sign-in, sign-up, OTP and forgot-password forms.
type AuthHandler struct {
	flow *authflow.Controller
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(flow *authflow.Controller) *AuthHandler {
	return &AuthHandler{flow: flow}
}

// SignInGet renders the sign-in form (GET /signin).
func (h *AuthHandler) SignInGet(c echo.Context) error {
	return render(c, pageFor(c, "Sign in", nil), pages.SignIn(pages.SignInData{}))
}

// SignInPost handles the sign-in form. Success navigates to the dashboard of
// the user's role; failure re-renders the form with the email kept.
func (h *AuthHandler) SignInPost(c echo.Context) error {
	var in authflow.SignInInput
	if err := bind(c, &in); err != nil {
		return err
	}

	out := h.flow.SignIn(backendContext(c), middleware.ClientIDFrom(c), credentials.NewSessionStore(c), in)
	if gone(c) {
		return nil
	}
	if out.Succeeded() {
		return seeOther(c, out.Redirect)
	}

	middleware.FromContext(c.Request().Context()).Info("Sign-in failed", "email", in.Email, "error", out.Err)
	p := withError(pageFor(c, "Sign in", nil), out.Message)
	return render(c, p, pages.SignIn(pages.SignInData{Email: strings.TrimSpace(in.Email), FieldErrors: out.FieldErrors}))
}

// SignUpGet renders the registration form (GET /signup).
func (h *AuthHandler) SignUpGet(c echo.Context) error {
	return render(c, pageFor(c, "Sign up", nil), pages.SignUp(pages.SignUpData{}))
}

// SignUpPost handles the registration form. Success hands the email to the
// OTP page through the flash session.
func (h *AuthHandler) SignUpPost(c echo.Context) error {
	var in authflow.SignUpInput
	if err := bind(c, &in); err != nil {
		return err
	}

	res := h.flow.SignUp(backendContext(c), middleware.ClientIDFrom(c), in)
	if gone(c) {
		return nil
	}
	if res.Succeeded() {
		view.SetPendingRegistration(c, *res.Pending)
		view.SetFlashSuccess(c, res.Message)
		return seeOther(c, res.Redirect)
	}

	p := withError(pageFor(c, "Sign up", nil), res.Message)
	return render(c, p, pages.SignUp(pages.SignUpData{
		Name:        res.Retained.Name,
		Email:       res.Retained.Email,
		Location:    res.Retained.Location,
		FieldErrors: res.FieldErrors,
	}))
}

// OTPGet renders the verification form (GET /otp-verification). Without a
// pending registration it redirects to sign in before rendering anything.
func (h *AuthHandler) OTPGet(c echo.Context) error {
	pending := view.TakePendingRegistration(c)
	if out := authflow.RequirePending(pending); out.Err != nil {
		return seeOther(c, out.Redirect)
	}
	// Keep it for a reload of this page.
	view.SetPendingRegistration(c, *pending)
	return render(c, pageFor(c, "Verify email", nil), pages.OTP(pages.OTPData{Email: pending.Email}))
}

// OTPPost handles the verification form. The email travels in a hidden field.
func (h *AuthHandler) OTPPost(c echo.Context) error {
	var in authflow.VerifyOTPInput
	if err := bind(c, &in); err != nil {
		return err
	}
	var pending *domain.PendingRegistration
	if email := strings.TrimSpace(c.FormValue("email")); email != "" {
		pending = &domain.PendingRegistration{Email: email}
	}

	out := h.flow.VerifyOTP(backendContext(c), middleware.ClientIDFrom(c), credentials.NewSessionStore(c), pending, in)
	if gone(c) {
		return nil
	}
	if out.Redirect != "" {
		if out.Succeeded() {
			view.TakePendingRegistration(c)
		}
		return seeOther(c, out.Redirect)
	}

	p := withError(pageFor(c, "Verify email", nil), out.Message)
	return render(c, p, pages.OTP(pages.OTPData{Email: pending.Email, FieldErrors: out.FieldErrors}))
}

// ForgotPasswordGet renders the forgot-password form in the phase kept by
// the previous submission.
func (h *AuthHandler) ForgotPasswordGet(c echo.Context) error {
	values := view.TakeFormValues(c)
	return render(c, pageFor(c, "Forgot password", nil), pages.ForgotPassword(pages.ForgotPasswordData{
		CodePhase: values["step"] == resetStepCode,
		Email:     values["email"],
	}))
}

// ForgotPasswordPost handles both phases of the forgot-password form.
func (h *AuthHandler) ForgotPasswordPost(c echo.Context) error {
	ctx := c.Request().Context()

	if c.FormValue("step") == resetStepCode {
		var in authflow.ResetCodeInput
		if err := bind(c, &in); err != nil {
			return err
		}
		res := h.flow.SubmitResetCode(ctx, strings.TrimSpace(c.FormValue("email")), in)
		p := withError(pageFor(c, "Forgot password", nil), res.Message)
		return render(c, p, pages.ForgotPassword(pages.ForgotPasswordData{
			CodePhase:   res.Phase == authflow.ResetEnterCode,
			Email:       res.Email,
			FieldErrors: res.FieldErrors,
		}))
	}

	var in authflow.ResetRequestInput
	if err := bind(c, &in); err != nil {
		return err
	}
	res := h.flow.RequestResetCode(ctx, in)
	if !res.Succeeded() {
		p := withError(pageFor(c, "Forgot password", nil), res.Message)
		return render(c, p, pages.ForgotPassword(pages.ForgotPasswordData{Email: res.Email, FieldErrors: res.FieldErrors}))
	}

	view.SetFlashInfo(c, res.Message)
	view.SetFormValues(c, map[string]string{"step": resetStepCode, "email": res.Email})
	return seeOther(c, domain.PathForgotPassword)
}

// Logout clears the credential and returns to sign in.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.flow.SignOut(ctx, credentials.NewSessionStore(c)); err != nil {
		middleware.FromContext(ctx).Error("Failed to clear credential", "error", err)
	}
	view.SetFlashSuccess(c, MsgSignedOut)
	return seeOther(c, domain.PathSignIn)
}
