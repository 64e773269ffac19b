package api

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Outcome labels recorded per backend call.
const (
	outcomeOK           = "ok"
	outcomeNetwork      = "network"
	outcomeOpen         = "breaker_open"
	outcomeUnauthorized = "unauthorized"
	outcomeRejected     = "rejected"
	outcomeDecode       = "decode"
)

// Metrics are the prometheus collectors of the backend client.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breakerState *prometheus.GaugeVec
}

// NewMetrics creates the client collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors already registered under
// the same name are reused, so several clients may share one registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wastewise",
				Subsystem: "backend",
				Name:      "requests_total",
				Help:      "Backend calls by endpoint, method and outcome.",
			},
			[]string{"endpoint", "method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wastewise",
				Subsystem: "backend",
				Name:      "request_duration_seconds",
				Help:      "Latency of backend calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wastewise",
				Subsystem: "backend",
				Name:      "circuit_breaker_state",
				Help:      "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
	m.requests = register(reg, m.requests)
	m.duration = register(reg, m.duration)
	m.breakerState = register(reg, m.breakerState)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) observe(endpoint, method, outcome string, seconds float64) {
	m.requests.WithLabelValues(endpoint, method, outcome).Inc()
	m.duration.WithLabelValues(endpoint, method).Observe(seconds)
}

func (m *Metrics) setBreakerState(name string, state gobreaker.State) {
	m.breakerState.WithLabelValues(name).Set(stateToFloat(state))
}

// stateToFloat maps gobreaker states to prometheus gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func outcomeOf(err error) string {
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return outcomeOpen
	case errors.Is(err, ErrNetwork):
		return outcomeNetwork
	case errors.Is(err, ErrUnauthorized):
		return outcomeUnauthorized
	case errors.As(err, &decodeErr):
		return outcomeDecode
	default:
		return outcomeRejected
	}
}
