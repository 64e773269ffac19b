package authflow

import (
	"errors"
	"sync"
)

// State is the lifecycle of one form submission.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Form identifies one of the authentication forms.
type Form string

const (
	FormSignIn         Form = "sign-in"
	FormSignUp         Form = "sign-up"
	FormVerifyOTP      Form = "verify-otp"
	FormForgotPassword Form = "forgot-password"
)

// User-facing messages.
const (
	MsgSignInFailed        = "Login failed. Please try again."
	MsgRegistrationSuccess = "Registration successful. Please verify your email with the OTP sent."
	MsgRegistrationFailed  = "Registration failed. Please try again."
	MsgOTPFailed           = "OTP verification failed. Please try again."
	MsgResetCodeSent       = "Please enter the OTP sent to your email"
	MsgResetUnavailable    = "Password reset is not available yet. Please contact support."
	MsgSubmitInProgress    = "Your previous request is still being processed. Please wait."
	MsgCredentialNotSaved  = "Signed in, but the session could not be saved. Please try again."
)

// ErrSubmitInProgress is returned when the same client submits a form again
// while the previous submission is still running.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Outcome is the terminal state of a form submission.
type Outcome struct {
	Form  Form
	State State
	// Message is the banner to show, if any.
	Message string
	// Redirect is where to navigate next. It is set on success, and on
	// failures that leave the page (missing registration context).
	Redirect string
	// FieldErrors maps form field names to validation messages.
	FieldErrors map[string]string
	Err         error
}

// Succeeded reports whether the submission completed successfully.
func (o Outcome) Succeeded() bool {
	return o.State == Succeeded
}

func failed(form Form, msg string, err error) Outcome {
	return Outcome{Form: form, State: Failed, Message: msg, Err: err}
}

// guard refuses concurrent submissions of one form by one client.
type guard struct {
	inflight sync.Map
}

// acquire returns a release function, or false when a submission for the
// same form and client is already running. Anonymous clients are not guarded.
func (g *guard) acquire(form Form, clientID string) (func(), bool) {
	if clientID == "" {
		return func() {}, true
	}
	key := string(form) + "|" + clientID
	if _, loaded := g.inflight.LoadOrStore(key, struct{}{}); loaded {
		return nil, false
	}
	return func() { g.inflight.Delete(key) }, true
}
