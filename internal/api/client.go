// Package api is the gateway to the waste-management backend. Every call is
// fire-once: there are no automatic retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/logging"
	"github.com/nfrund/wastewise/internal/validation"
	"github.com/sony/gobreaker/v2"
)

const maxBodyBytes = 1 << 20 // 1 MB

// Options configures a Client. Zero values select the defaults.
type Options struct {
	// HTTPClient performs the calls. It must not set a global timeout;
	// bounded calls get a per-request deadline instead.
	HTTPClient *http.Client
	// AdminTimeout bounds the admin user-management calls.
	AdminTimeout time.Duration
	// BreakerName identifies the breaker in logs and metrics.
	BreakerName string
	// BreakerFailureRatio trips the breaker once this share of calls fail.
	BreakerFailureRatio float64
	// BreakerMinRequests is the sample size before the ratio is evaluated.
	BreakerMinRequests uint32
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
	Metrics        *Metrics
	Logger         *slog.Logger
}

// Client calls the backend, attaching the stored bearer credential.
type Client struct {
	baseURL      string
	http         *http.Client
	breaker      *gobreaker.CircuitBreaker[*http.Response]
	adminTimeout time.Duration
	metrics      *Metrics
	logger       *slog.Logger
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Transport: newTransport()}
	}
	if opts.AdminTimeout <= 0 {
		opts.AdminTimeout = 10 * time.Second
	}
	if opts.BreakerName == "" {
		opts.BreakerName = "backend"
	}
	if opts.BreakerFailureRatio <= 0 {
		opts.BreakerFailureRatio = 0.6
	}
	if opts.BreakerMinRequests == 0 {
		opts.BreakerMinRequests = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         opts.HTTPClient,
		adminTimeout: opts.AdminTimeout,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
	}

	settings := gobreaker.Settings{
		Name:        opts.BreakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= opts.BreakerFailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			c.metrics.setBreakerState(name, to)
		},
	}
	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](settings)
	c.metrics.setBreakerState(opts.BreakerName, gobreaker.StateClosed)
	return c
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// BreakerState returns the current state of the circuit breaker.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// call describes one backend request.
type call struct {
	method string
	path   string
	// route is the metrics label; it defaults to path.
	route string
	body  any
	store credentials.Store
	// bounded calls run under the admin timeout.
	bounded bool
}

// Do sends a request and decodes a 2xx body into out. The bearer token is
// taken from store when it holds a credential. out may be nil to discard
// the body.
func (c *Client) Do(ctx context.Context, store credentials.Store, method, path string, body, out any) error {
	return c.do(ctx, call{method: method, path: path, body: body, store: store}, out)
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	if cl.route == "" {
		cl.route = cl.path
	}
	if cl.bounded {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.adminTimeout)
		defer cancel()
	}

	start := time.Now()
	err := c.send(ctx, cl, out)
	c.metrics.observe(cl.route, cl.method, outcomeOf(err), time.Since(start).Seconds())

	logger := c.logger.With("method", cl.method, "path", cl.path, "request_id", logging.RequestIDFromContext(ctx))
	switch {
	case err == nil:
		logger.DebugContext(ctx, "Backend call succeeded", "duration", time.Since(start))
	case errors.Is(err, ErrNetwork):
		logger.WarnContext(ctx, "Backend unreachable", "error", err)
	default:
		logger.InfoContext(ctx, "Backend call failed", "error", err)
	}
	return err
}

func (c *Client) send(ctx context.Context, cl call, out any) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		// Treat 5xx responses as failures for the circuit breaker.
		if resp.StatusCode >= 500 {
			defer func() { _ = resp.Body.Close() }()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			return nil, parseRejected(resp.StatusCode, cl.method, cl.path, body)
		}
		return resp, nil
	})
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			return rej
		}
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, cl.method, cl.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %s %s: read body: %w", ErrNetwork, cl.method, cl.path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseRejected(resp.StatusCode, cl.method, cl.path, body)
	}
	if out == nil {
		return nil
	}
	if err := decodeStrict(body, out); err != nil {
		return &DecodeError{Method: cl.method, Path: cl.path, Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", cl.method, cl.path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", cl.method, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	reqID := logging.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	if token := credentials.Token(ctx, cl.store); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// decodeStrict decodes body into out and validates struct shapes.
func decodeStrict(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty body")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return err
	}
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
		return validation.Validate(out)
	}
	return nil
}
