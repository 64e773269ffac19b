// Package activity publishes session lifecycle events on the in-process bus
// and audits them.
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/nfrund/wastewise/internal/logging"
	"github.com/nfrund/wastewise/internal/pubsub"
)

// Kind names a lifecycle event.
type Kind string

const (
	SignedIn              Kind = "signed_in"
	SignInFailed          Kind = "sign_in_failed"
	SignedOut             Kind = "signed_out"
	CredentialCleared     Kind = "credential_cleared"
	RegistrationSubmitted Kind = "registration_submitted"
	OTPVerified           Kind = "otp_verified"
	ResetCodeRequested    Kind = "reset_code_requested"
	ComplaintFiled        Kind = "complaint_filed"
	UserUpdated           Kind = "user_updated"
	UserDeleted           Kind = "user_deleted"
)

// Event is the payload published for every lifecycle change.
type Event struct {
	Kind   Kind      `json:"kind"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Topic carries every activity event.
var Topic = pubsub.NewEvent[Event]("wastewise.activity")

// Recorder receives lifecycle events. Recording never fails the caller.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Nop discards events.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Event) {}

// BusRecorder publishes events on a pubsub.Publisher.
type BusRecorder struct {
	pub pubsub.Publisher
	now func() time.Time
}

// NewBusRecorder creates a recorder publishing on pub.
func NewBusRecorder(pub pubsub.Publisher) *BusRecorder {
	return &BusRecorder{pub: pub, now: time.Now}
}

// Record implements Recorder.
func (r *BusRecorder) Record(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = r.now().UTC()
	}
	var metadata map[string]string
	if id := logging.RequestIDFromContext(ctx); id != "" {
		metadata = map[string]string{"request_id": id}
	}
	if err := pubsub.Publish(ctx, r.pub, Topic, ev.Email, ev, metadata); err != nil {
		slog.WarnContext(ctx, "Failed to publish activity event", "kind", ev.Kind, "error", err)
	}
}
