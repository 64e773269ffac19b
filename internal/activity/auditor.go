package activity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/wastewise/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
)

// Auditor writes every activity event to the audit log and counts it.
type Auditor struct {
	logger  *slog.Logger
	counter *prometheus.CounterVec

	mu     sync.Mutex
	recent []Event
	limit  int
}

// NewAuditor creates an auditor. The event counter is registered with reg
// when it is not nil.
func NewAuditor(logger *slog.Logger, reg prometheus.Registerer) *Auditor {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wastewise",
		Name:      "activity_events_total",
		Help:      "Session lifecycle events by kind.",
	}, []string{"kind"})
	if reg != nil {
		if err := reg.Register(counter); err != nil {
			logger.Warn("Activity counter not registered", "error", err)
		}
	}
	return &Auditor{logger: logger.With("component", "audit"), counter: counter, limit: 50}
}

// Start subscribes the auditor to the activity topic.
func (a *Auditor) Start(ctx context.Context, sub pubsub.Subscriber) error {
	return pubsub.Subscribe(ctx, sub, Topic, a.handle)
}

func (a *Auditor) handle(ctx context.Context, ev Event, msg pubsub.Message) error {
	a.counter.WithLabelValues(string(ev.Kind)).Inc()
	a.logger.InfoContext(ctx, "activity",
		"kind", ev.Kind,
		"email", ev.Email,
		"role", ev.Role,
		"detail", ev.Detail,
		"at", ev.At,
		"request_id", msg.Metadata["request_id"],
	)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.recent = append(a.recent, ev)
	if len(a.recent) > a.limit {
		a.recent = a.recent[len(a.recent)-a.limit:]
	}
	return nil
}

// Recent returns the latest audited events, oldest first.
func (a *Auditor) Recent() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Event, len(a.recent))
	copy(out, a.recent)
	return out
}
