package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/bootstrap"
	"github.com/nfrund/wastewise/internal/config"
	"github.com/nfrund/wastewise/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
)

// Dependencies holds the core services the web server is built from.
// It is resolved once from the injector by the main application entrypoint.
type Dependencies struct {
	Config    *config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Client    *api.Client
	Bus       *pubsub.WatermillBridge
	Auditor   *activity.Auditor
	AuthFlow  *authflow.Controller
	Bootstrap *bootstrap.Controller
	Tracing   *Tracing
}

// Resolve builds every service registered by NewInjector.
func Resolve(i do.Injector) (*Dependencies, error) {
	var errs []error
	deps := &Dependencies{
		Config:    invoke[*config.Config](i, &errs),
		Logger:    invoke[*slog.Logger](i, &errs),
		Registry:  invoke[*prometheus.Registry](i, &errs),
		Client:    invoke[*api.Client](i, &errs),
		Bus:       invoke[*pubsub.WatermillBridge](i, &errs),
		Auditor:   invoke[*activity.Auditor](i, &errs),
		AuthFlow:  invoke[*authflow.Controller](i, &errs),
		Bootstrap: invoke[*bootstrap.Controller](i, &errs),
		Tracing:   invoke[*Tracing](i, &errs),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return deps, nil
}

func invoke[T any](i do.Injector, errs *[]error) T {
	v, err := do.Invoke[T](i)
	if err != nil {
		*errs = append(*errs, err)
	}
	return v
}

// Start subscribes the auditor to the activity bus.
func (d *Dependencies) Start(ctx context.Context) error {
	return d.Auditor.Start(ctx, d.Bus)
}

// Close stops the bus and flushes pending trace spans.
func (d *Dependencies) Close(ctx context.Context) error {
	return errors.Join(d.Bus.Close(), d.Tracing.Shutdown(ctx))
}
