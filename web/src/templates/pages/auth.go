// Package pages holds the gomponents content of every page.
package pages

import (
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/web/src/templates/components"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Landing is the public entry page.
func Landing() g.Node {
	return Div(Class("hero"),
		H1(g.Text("WasteWise")),
		P(g.Text("Track your waste collection schedule, payments and complaints in one place.")),
		Div(Class("actions"),
			A(Class("btn btn-primary"), Href(domain.PathSignIn), g.Text("Sign in")),
			A(Class("btn"), Href(domain.PathSignUp), g.Text("Create an account")),
		),
	)
}

// SignInData pre-fills the sign-in form.
type SignInData struct {
	Email       string
	FieldErrors map[string]string
}

// SignIn is the sign-in form.
func SignIn(d SignInData) g.Node {
	return Div(Class("auth-card"),
		H1(g.Text("Sign in")),
		components.Form(domain.PathSignIn,
			components.Field(components.FieldProps{Label: "Email", Name: "email", Type: "email", Value: d.Email, Error: d.FieldErrors["email"], Required: true}),
			components.Field(components.FieldProps{Label: "Password", Name: "password", Type: "password", Error: d.FieldErrors["password"], Required: true}),
			components.Submit("Sign in"),
		),
		P(Class("links"),
			A(Href(domain.PathForgotPassword), g.Text("Forgot password?")),
			g.Text(" · "),
			A(Href(domain.PathSignUp), g.Text("Create an account")),
		),
	)
}

// SignUpData pre-fills the registration form after a failed submit.
type SignUpData struct {
	Name        string
	Email       string
	Location    string
	FieldErrors map[string]string
}

// SignUp is the registration form.
func SignUp(d SignUpData) g.Node {
	return Div(Class("auth-card"),
		H1(g.Text("Create an account")),
		components.Form(domain.PathSignUp,
			components.Field(components.FieldProps{Label: "Full name", Name: "name", Value: d.Name, Error: d.FieldErrors["name"], Required: true}),
			components.Field(components.FieldProps{Label: "Email", Name: "email", Type: "email", Value: d.Email, Error: d.FieldErrors["email"], Required: true}),
			components.Field(components.FieldProps{Label: "Location", Name: "location", Value: d.Location, Error: d.FieldErrors["location"], Required: true}),
			components.Field(components.FieldProps{Label: "Password", Name: "password", Type: "password", Error: d.FieldErrors["password"], Required: true}),
			components.Submit("Sign up"),
		),
		P(Class("links"), g.Text("Already registered? "), A(Href(domain.PathSignIn), g.Text("Sign in"))),
	)
}

// OTPData identifies the registration being verified.
type OTPData struct {
	Email       string
	FieldErrors map[string]string
}

// OTP is the email verification form. The email travels in a hidden field.
func OTP(d OTPData) g.Node {
	return Div(Class("auth-card"),
		H1(g.Text("Verify your email")),
		P(g.Text("Enter the code we sent to "), Strong(g.Text(d.Email)), g.Text(".")),
		components.Form(domain.PathOTPVerification,
			components.Hidden("email", d.Email),
			components.Field(components.FieldProps{
				Label:    "Verification code",
				Name:     "otp",
				Error:    d.FieldErrors["otp"],
				Required: true,
				Extra:    []g.Node{AutoComplete("one-time-code"), g.Attr("inputmode", "numeric")},
			}),
			components.Submit("Verify"),
		),
	)
}

// ForgotPasswordData selects the phase of the reset form.
type ForgotPasswordData struct {
	// CodePhase shows the code entry step instead of the email step.
	CodePhase   bool
	Email       string
	FieldErrors map[string]string
}

// ForgotPassword is the two-step password reset form.
func ForgotPassword(d ForgotPasswordData) g.Node {
	if d.CodePhase {
		return Div(Class("auth-card"),
			H1(g.Text("Reset your password")),
			P(g.Text("Enter the code sent to "), Strong(g.Text(d.Email)), g.Text(".")),
			components.Form(domain.PathForgotPassword,
				components.Hidden("step", "code"),
				components.Hidden("email", d.Email),
				components.Field(components.FieldProps{
					Label:    "Reset code",
					Name:     "code",
					Error:    d.FieldErrors["code"],
					Required: true,
					Extra:    []g.Node{MaxLength("6"), Pattern("[0-9]*"), g.Attr("inputmode", "numeric")},
				}),
				components.Submit("Reset password"),
			),
			P(Class("links"), A(Href(domain.PathForgotPassword), g.Text("Use a different email"))),
		)
	}
	return Div(Class("auth-card"),
		H1(g.Text("Forgot password")),
		components.Form(domain.PathForgotPassword,
			components.Hidden("step", "email"),
			components.Field(components.FieldProps{Label: "Email", Name: "email", Type: "email", Value: d.Email, Error: d.FieldErrors["email"], Required: true}),
			components.Submit("Send code"),
		),
		P(Class("links"), A(Href(domain.PathSignIn), g.Text("Back to sign in"))),
	)
}

// VerificationPending explains that an administrator must approve the account.
func VerificationPending() g.Node {
	return Div(Class("auth-card"),
		H1(g.Text("Verification pending")),
		P(g.Text("Your account is awaiting approval by an administrator. You will be able to use your dashboard once it has been approved.")),
		A(Class("btn"), Href(domain.PathSignIn), g.Text("Back to sign in")),
	)
}
