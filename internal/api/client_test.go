package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, opts), srv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func storeWithToken(token string) credentials.Store {
	s := credentials.NewMemoryStore()
	_ = s.Set(context.Background(), domain.Credential{Token: token})
	return s
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Welcome",
			"user":    map[string]any{"name": "Ada", "email": "ada@example.com", "role": "USER", "accountStatus": "APPROVED"},
		})
	}, Options{})

	ctx := logging.WithRequestID(context.Background(), "req-42")
	resp, err := client.Profile(ctx, storeWithToken("abc"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "req-42", gotReqID)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.Equal(t, domain.RoleUser, resp.User.Role)
}

func TestClient_NoCredentialNoHeader(t *testing.T) {
	var gotAuth, gotReqID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusCreated)
	}, Options{})

	err := client.Register(context.Background(), RegisterRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.NotEmpty(t, gotReqID, "a request id is generated when none is inherited")
}

func TestClient_ClassifiesFailures(t *testing.T) {
	t.Run("401 is unauthorized and keeps body fields", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials", "error": "Unauthorized"})
		}, Options{})

		_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "x"})
		require.ErrorIs(t, err, ErrUnauthorized)
		var rej *RejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, http.StatusUnauthorized, rej.Status)
		assert.Equal(t, "Unauthorized", rej.Message())
		assert.Equal(t, "Bad credentials", rej.MessagePreferringMessage())
	})

	t.Run("403 is unauthorized", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}, Options{})

		_, err := client.UserSnapshot(context.Background(), storeWithToken("t"))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("400 is rejected with nested error message", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"code": "INVALID", "message": "Email already registered"}})
		}, Options{})

		err := client.Register(context.Background(), RegisterRequest{})
		require.ErrorIs(t, err, ErrRejected)
		assert.NotErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Email already registered", MessageFrom(err, "fallback"))
	})

	t.Run("plain text body becomes the error text", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte("User already exists"))
		}, Options{})

		err := client.Register(context.Background(), RegisterRequest{})
		assert.Equal(t, "User already exists", MessageFrom(err, "fallback"))
	})

	t.Run("500 is rejected, not a network error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		}, Options{})

		_, err := client.AdminSnapshot(context.Background(), storeWithToken("t"))
		require.ErrorIs(t, err, ErrRejected)
		assert.NotErrorIs(t, err, ErrNetwork)
		assert.Equal(t, "boom", MessageFrom(err, "fallback"))
	})

	t.Run("unreachable backend is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := New(srv.URL, Options{})

		_, err := client.Login(context.Background(), LoginRequest{})
		require.ErrorIs(t, err, ErrNetwork)
		assert.Equal(t, NetworkMessage, MessageFrom(err, "fallback"))
	})

	t.Run("missing profile is a decode error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "no user here"})
		}, Options{})

		_, err := client.Profile(context.Background(), storeWithToken("t"))
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, PathProfile, decodeErr.Path)
		assert.Equal(t, "fallback", MessageFrom(err, "fallback"))
	})

	t.Run("type mismatch is a decode error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"payments": "not-a-list"}`))
		}, Options{})

		_, err := client.UserSnapshot(context.Background(), storeWithToken("t"))
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

func TestClient_BreakerOpensAndFailsFast(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, Options{BreakerMinRequests: 2, BreakerFailureRatio: 0.5, BreakerTimeout: time.Minute})

	for range 2 {
		err := client.Register(context.Background(), RegisterRequest{})
		require.ErrorIs(t, err, ErrRejected)
	}
	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	err := client.Register(context.Background(), RegisterRequest{})
	require.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load(), "an open breaker never reaches the backend")
}

func TestClient_AdminCallsAreBounded(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Options{AdminTimeout: 50 * time.Millisecond})
	defer close(release)

	_, err := client.ListUsers(context.Background(), storeWithToken("t"))
	require.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ListUsersShapes(t *testing.T) {
	users := []map[string]string{{"id": "u1", "fullName": "Ada", "accountStatus": "APPROVED", "role": "USER"}}

	for name, body := range map[string]any{
		"bare array":   users,
		"users object": map[string]any{"users": users},
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, PathAdminUsers, r.URL.Path)
				writeJSON(w, http.StatusOK, body)
			}, Options{})

			got, err := client.ListUsers(context.Background(), storeWithToken("t"))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "u1", got[0].ID)
			assert.Equal(t, domain.StatusApproved, got[0].AccountStatus)
		})
	}
}

func TestClient_UserMutations(t *testing.T) {
	type seen struct {
		method, path string
		body         map[string]any
	}
	var last seen
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		last = seen{method: r.Method, path: r.URL.EscapedPath()}
		_ = json.NewDecoder(r.Body).Decode(&last.body)
		w.WriteHeader(http.StatusNoContent)
	}, Options{Metrics: metrics})

	store := storeWithToken("t")
	update := domain.UserUpdate{FullName: "Ada L", Email: "ada@example.com", AccountStatus: domain.StatusSuspended, Role: domain.RoleUser}
	require.NoError(t, client.UpdateUser(context.Background(), store, "a/b", update))
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/admin/users/a%2Fb", last.path)
	assert.Equal(t, "SUSPENDED", last.body["accountStatus"])

	require.NoError(t, client.DeleteUser(context.Background(), store, "u2"))
	assert.Equal(t, http.MethodDelete, last.method)
	assert.Equal(t, "/admin/users/u2", last.path)

	// Both calls share the collapsed route label.
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(routeAdminUserByID, http.MethodPut, outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(routeAdminUserByID, http.MethodDelete, outcomeOK)))
}

func TestNewMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewMetrics(reg)
	second := NewMetrics(reg)
	assert.Same(t, first.requests, second.requests)
}

func TestMessageFrom(t *testing.T) {
	assert.Equal(t, "fallback", MessageFrom(errors.New("other"), "fallback"))
	assert.Equal(t, "only message", MessageFrom(&RejectedError{Status: 400, MessageField: "only message"}, "fallback"))
	assert.Equal(t, "err first", MessageFrom(&RejectedError{Status: 400, ErrorField: "err first", MessageField: "msg"}, "fallback"))
}
