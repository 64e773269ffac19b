// Package app wires the application services together.
package app

import (
	"context"
	"log/slog"

	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/bootstrap"
	"github.com/nfrund/wastewise/internal/config"
	"github.com/nfrund/wastewise/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/trace"
)

// Tracing is the tracer of the activity bus and the hook flushing it.
type Tracing struct {
	Tracer   trace.Tracer
	shutdown func(context.Context) error
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

// NewInjector registers the providers of every service. Services are built
// lazily on first use, so a command only pays for what it resolves.
func NewInjector(cfg *config.Config, logger *slog.Logger) do.Injector {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue(i, logger)

	do.Provide(i, func(i do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg, nil
	})

	do.Provide(i, func(i do.Injector) (*api.Client, error) {
		reg := do.MustInvoke[*prometheus.Registry](i)
		return api.New(cfg.GetBackendURL(), api.Options{
			AdminTimeout:        cfg.GetAdminRequestTimeout(),
			BreakerFailureRatio: cfg.GetBreakerFailureRatio(),
			BreakerTimeout:      cfg.GetBreakerTimeout(),
			Metrics:             api.NewMetrics(reg),
			Logger:              logger,
		}), nil
	})

	do.Provide(i, func(i do.Injector) (*Tracing, error) {
		tracer, shutdown, err := pubsub.SetupTracing(context.Background(), cfg.GetTracing())
		if err != nil {
			return nil, err
		}
		return &Tracing{Tracer: tracer, shutdown: shutdown}, nil
	})

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		tracing, err := do.Invoke[*Tracing](i)
		if err != nil {
			return nil, err
		}
		return pubsub.NewWatermillBridgeWithTracer(tracing.Tracer), nil
	})

	do.Provide(i, func(i do.Injector) (*activity.BusRecorder, error) {
		return activity.NewBusRecorder(do.MustInvoke[*pubsub.WatermillBridge](i)), nil
	})

	do.Provide(i, func(i do.Injector) (*activity.Auditor, error) {
		return activity.NewAuditor(logger, do.MustInvoke[*prometheus.Registry](i)), nil
	})

	do.Provide(i, func(i do.Injector) (*authflow.Controller, error) {
		return authflow.New(do.MustInvoke[*api.Client](i), do.MustInvoke[*activity.BusRecorder](i)), nil
	})

	do.Provide(i, func(i do.Injector) (*bootstrap.Controller, error) {
		return bootstrap.New(do.MustInvoke[*api.Client](i), do.MustInvoke[*activity.BusRecorder](i)), nil
	})

	return i
}
