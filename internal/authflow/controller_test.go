package authflow_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend provides a mock implementation of authflow.Backend.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Register(ctx context.Context, req api.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBackend) VerifyOTP(ctx context.Context, req api.VerifyOTPRequest) (api.VerifyOTPResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(api.VerifyOTPResponse), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(api.LoginResponse), args.Error(1)
}

// recorder collects activity events.
type recorder struct {
	mu     sync.Mutex
	events []activity.Event
}

func (r *recorder) Record(_ context.Context, ev activity.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []activity.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]activity.Kind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func setupController() (*authflow.Controller, *MockBackend, *recorder) {
	backend := &MockBackend{}
	rec := &recorder{}
	return authflow.New(backend, rec), backend, rec
}

func rejected(status int, errField, msgField string) error {
	return &api.RejectedError{Status: status, Method: http.MethodPost, ErrorField: errField, MessageField: msgField}
}

var networkErr = fmt.Errorf("%w: dial tcp: connection refused", api.ErrNetwork)

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	validInput := authflow.SignInInput{Email: "ada@example.com", Password: "secret"}

	t.Run("stores credential and routes by role", func(t *testing.T) {
		for role, want := range map[domain.Role]string{
			domain.RoleAdmin: domain.PathAdminDashboard,
			domain.RoleUser:  domain.PathDashboard,
		} {
			ctrl, backend, rec := setupController()
			store := credentials.NewMemoryStore()
			backend.On("Login", mock.Anything, api.LoginRequest{Email: "ada@example.com", Password: "secret"}).
				Return(api.LoginResponse{Token: "tok-" + string(role), User: domain.Profile{Email: "ada@example.com", Role: role}}, nil)

			out := ctrl.SignIn(ctx, "client-1", store, validInput)

			require.True(t, out.Succeeded(), out.Message)
			assert.Equal(t, want, out.Redirect)
			cred, ok := store.Get(ctx)
			require.True(t, ok)
			assert.Equal(t, "tok-"+string(role), cred.Token)
			assert.Equal(t, role, cred.User.Role)
			assert.Equal(t, []activity.Kind{activity.SignedIn}, rec.kinds())
		}
	})

	t.Run("401 stores nothing and surfaces server message", func(t *testing.T) {
		cases := []struct {
			name string
			err  error
			want string
		}{
			{"message first", rejected(401, "Unauthorized", "Invalid email or password"), "Invalid email or password"},
			{"error when no message", rejected(401, "Bad credentials", ""), "Bad credentials"},
			{"default when empty", rejected(401, "", ""), authflow.MsgSignInFailed},
			{"network failure", networkErr, api.NetworkMessage},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				ctrl, backend, rec := setupController()
				store := credentials.NewMemoryStore()
				backend.On("Login", mock.Anything, mock.Anything).Return(api.LoginResponse{}, tc.err)

				out := ctrl.SignIn(ctx, "client-1", store, validInput)

				assert.Equal(t, authflow.Failed, out.State)
				assert.Equal(t, tc.want, out.Message)
				assert.Empty(t, out.Redirect)
				_, ok := store.Get(ctx)
				assert.False(t, ok)
				assert.Equal(t, []activity.Kind{activity.SignInFailed}, rec.kinds())
			})
		}
	})

	t.Run("failure keeps an existing credential", func(t *testing.T) {
		ctrl, backend, _ := setupController()
		store := credentials.NewMemoryStore()
		require.NoError(t, store.Set(ctx, domain.Credential{Token: "old"}))
		backend.On("Login", mock.Anything, mock.Anything).Return(api.LoginResponse{}, rejected(401, "", ""))

		ctrl.SignIn(ctx, "client-1", store, validInput)

		assert.Equal(t, "old", credentials.Token(ctx, store))
	})

	t.Run("2xx without token is a failure", func(t *testing.T) {
		ctrl, backend, _ := setupController()
		store := credentials.NewMemoryStore()
		backend.On("Login", mock.Anything, mock.Anything).Return(api.LoginResponse{Message: "ok"}, nil)

		out := ctrl.SignIn(ctx, "client-1", store, validInput)

		assert.Equal(t, authflow.Failed, out.State)
		assert.Equal(t, authflow.MsgSignInFailed, out.Message)
		_, ok := store.Get(ctx)
		assert.False(t, ok)
	})

	t.Run("validation runs before any network call", func(t *testing.T) {
		ctrl, backend, _ := setupController()

		out := ctrl.SignIn(ctx, "client-1", credentials.NewMemoryStore(), authflow.SignInInput{Email: "nope"})

		assert.Equal(t, authflow.Failed, out.State)
		assert.Contains(t, out.FieldErrors, "email")
		assert.Contains(t, out.FieldErrors, "password")
		backend.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestSignIn_RefusesConcurrentSubmit(t *testing.T) {
	ctx := context.Background()
	ctrl, backend, _ := setupController()
	store := credentials.NewMemoryStore()

	entered := make(chan struct{})
	release := make(chan struct{})
	backend.On("Login", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(api.LoginResponse{Token: "tok", User: domain.Profile{Role: domain.RoleUser}}, nil).Once()

	done := make(chan authflow.Outcome)
	go func() {
		done <- ctrl.SignIn(ctx, "client-1", store, authflow.SignInInput{Email: "ada@example.com", Password: "secret"})
	}()
	<-entered

	second := ctrl.SignIn(ctx, "client-1", store, authflow.SignInInput{Email: "ada@example.com", Password: "secret"})
	assert.ErrorIs(t, second.Err, authflow.ErrSubmitInProgress)
	assert.Equal(t, authflow.MsgSubmitInProgress, second.Message)

	close(release)
	select {
	case first := <-done:
		assert.True(t, first.Succeeded())
	case <-time.After(2 * time.Second):
		t.Fatal("first submission did not finish")
	}
	backend.AssertNumberOfCalls(t, "Login", 1)
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	input := authflow.SignUpInput{Name: "Ada", Email: "ada@example.com", Location: "Kigali", Password: "secret"}

	t.Run("success carries pending registration to OTP step", func(t *testing.T) {
		ctrl, backend, rec := setupController()
		backend.On("Register", mock.Anything, api.RegisterRequest{Name: "Ada", Email: "ada@example.com", Location: "Kigali", Password: "secret"}).Return(nil)

		res := ctrl.SignUp(ctx, "client-1", input)

		require.True(t, res.Succeeded())
		assert.Equal(t, authflow.MsgRegistrationSuccess, res.Message)
		assert.Equal(t, domain.PathOTPVerification, res.Redirect)
		require.NotNil(t, res.Pending)
		assert.Equal(t, "ada@example.com", res.Pending.Email)
		assert.Equal(t, authflow.SignUpInput{}, res.Retained, "form is cleared on success")
		assert.Equal(t, []activity.Kind{activity.RegistrationSubmitted}, rec.kinds())
	})

	t.Run("failure retains data and shows error field", func(t *testing.T) {
		ctrl, backend, _ := setupController()
		backend.On("Register", mock.Anything, mock.Anything).Return(rejected(409, "Email already registered", "ignored"))

		res := ctrl.SignUp(ctx, "client-1", input)

		assert.Equal(t, authflow.Failed, res.State)
		assert.Equal(t, "Email already registered", res.Message)
		assert.Nil(t, res.Pending)
		assert.Equal(t, "Ada", res.Retained.Name)
		assert.Equal(t, "Kigali", res.Retained.Location)
		assert.Empty(t, res.Retained.Password)
	})

	t.Run("message-only rejection falls back to default", func(t *testing.T) {
		ctrl, backend, _ := setupController()
		backend.On("Register", mock.Anything, mock.Anything).Return(rejected(400, "", "Bad request"))

		res := ctrl.SignUp(ctx, "client-1", input)

		assert.Equal(t, authflow.MsgRegistrationFailed, res.Message)
	})

	t.Run("missing fields never reach the backend", func(t *testing.T) {
		ctrl, backend, _ := setupController()

		res := ctrl.SignUp(ctx, "client-1", authflow.SignUpInput{Email: "ada@example.com"})

		assert.Equal(t, authflow.Failed, res.State)
		assert.Contains(t, res.FieldErrors, "name")
		assert.Contains(t, res.FieldErrors, "location")
		backend.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()
	pending := &domain.PendingRegistration{Email: "ada@example.com"}

	t.Run("missing registration context redirects to sign in", func(t *testing.T) {
		ctrl, backend, _ := setupController()

		for _, p := range []*domain.PendingRegistration{nil, {Email: " "}} {
			out := ctrl.VerifyOTP(ctx, "client-1", credentials.NewMemoryStore(), p, authflow.VerifyOTPInput{OTP: "123456"})
			assert.ErrorIs(t, out.Err, domain.ErrMissingContext)
			assert.Equal(t, domain.PathSignIn, out.Redirect)
			assert.Empty(t, out.Message)
		}
		backend.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything)
	})

	t.Run("success marker stores returned token", func(t *testing.T) {
		ctrl, backend, rec := setupController()
		store := credentials.NewMemoryStore()
		backend.On("VerifyOTP", mock.Anything, api.VerifyOTPRequest{Email: "ada@example.com", OTP: "123456"}).
			Return(api.VerifyOTPResponse{Message: api.OTPVerifiedMessage, Token: "fresh"}, nil)

		out := ctrl.VerifyOTP(ctx, "client-1", store, pending, authflow.VerifyOTPInput{OTP: " 123456 "})

		require.True(t, out.Succeeded())
		assert.Equal(t, domain.PathDashboard, out.Redirect)
		cred, ok := store.Get(ctx)
		require.True(t, ok)
		assert.Equal(t, "fresh", cred.Token)
		assert.Equal(t, "ada@example.com", cred.User.Email)
		assert.Equal(t, []activity.Kind{activity.OTPVerified}, rec.kinds())
	})

	t.Run("success without token navigates without storing", func(t *testing.T) {
		ctrl, backend, _ := setupController()
		store := credentials.NewMemoryStore()
		backend.On("VerifyOTP", mock.Anything, mock.Anything).Return(api.VerifyOTPResponse{Message: api.OTPVerifiedMessage}, nil)

		out := ctrl.VerifyOTP(ctx, "client-1", store, pending, authflow.VerifyOTPInput{OTP: "123456"})

		assert.True(t, out.Succeeded())
		_, ok := store.Get(ctx)
		assert.False(t, ok)
	})

	t.Run("unknown email fails with server error and no navigation", func(t *testing.T) {
		ctrl, backend, _ := setupController()
		backend.On("VerifyOTP", mock.Anything, api.VerifyOTPRequest{Email: "ghost@example.com", OTP: "000000"}).
			Return(api.VerifyOTPResponse{}, rejected(400, "User not found", ""))

		out := ctrl.VerifyOTP(ctx, "client-1", credentials.NewMemoryStore(),
			&domain.PendingRegistration{Email: "ghost@example.com"}, authflow.VerifyOTPInput{OTP: "000000"})

		assert.Equal(t, authflow.Failed, out.State)
		assert.Equal(t, "User not found", out.Message)
		assert.Empty(t, out.Redirect)
	})

	t.Run("2xx without success marker is a failure", func(t *testing.T) {
		ctrl, backend, _ := setupController()
		backend.On("VerifyOTP", mock.Anything, mock.Anything).Return(api.VerifyOTPResponse{Message: "Something else"}, nil)

		out := ctrl.VerifyOTP(ctx, "client-1", credentials.NewMemoryStore(), pending, authflow.VerifyOTPInput{OTP: "1"})

		assert.Equal(t, authflow.Failed, out.State)
		assert.Equal(t, authflow.MsgOTPFailed, out.Message)
	})
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()
	ctrl, backend, rec := setupController()

	first := ctrl.RequestResetCode(ctx, authflow.ResetRequestInput{Email: "ada@example.com"})
	require.True(t, first.Succeeded())
	assert.Equal(t, authflow.ResetEnterCode, first.Phase)
	assert.Equal(t, "ada@example.com", first.Email)

	second := ctrl.SubmitResetCode(ctx, first.Email, authflow.ResetCodeInput{Code: "12-34-56-78"})
	assert.Equal(t, authflow.Failed, second.State)
	assert.ErrorIs(t, second.Err, domain.ErrResetUnavailable)
	assert.Equal(t, authflow.MsgResetUnavailable, second.Message)

	empty := ctrl.SubmitResetCode(ctx, first.Email, authflow.ResetCodeInput{Code: "abc"})
	assert.Contains(t, empty.FieldErrors, "code")

	badEmail := ctrl.RequestResetCode(ctx, authflow.ResetRequestInput{Email: "nope"})
	assert.Equal(t, authflow.ResetRequestCode, badEmail.Phase)

	assert.Empty(t, backend.Calls, "the reset flow never calls the backend")
	assert.Equal(t, []activity.Kind{activity.ResetCodeRequested}, rec.kinds())
}

func TestSanitizeResetCode(t *testing.T) {
	assert.Equal(t, "123456", authflow.SanitizeResetCode("12 34 56 78"))
	assert.Equal(t, "42", authflow.SanitizeResetCode("a4b2"))
	assert.Empty(t, authflow.SanitizeResetCode("code"))
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	ctrl, _, rec := setupController()
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Set(ctx, domain.Credential{Token: "t", User: domain.Profile{Email: "ada@example.com"}}))

	require.NoError(t, ctrl.SignOut(ctx, store))

	_, ok := store.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, []activity.Kind{activity.SignedOut}, rec.kinds())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "submitting", authflow.Submitting.String())
	assert.Equal(t, "failed", authflow.Failed.String())
	assert.True(t, errors.Is(authflow.ErrSubmitInProgress, authflow.ErrSubmitInProgress))
}
