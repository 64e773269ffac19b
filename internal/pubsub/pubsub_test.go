package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/wastewise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type testPayload struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
}

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	err := bridge.Publish(ctx, Message{
		Topic:    "test.topic",
		UserID:   "ada@example.com",
		Payload:  []byte(`{"hello":"world"}`),
		Metadata: map[string]string{"request_id": "req-123"},
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "test.topic", msg.Topic)
		assert.Equal(t, "ada@example.com", msg.UserID)
		assert.JSONEq(t, `{"hello":"world"}`, string(msg.Payload))
		assert.Equal(t, "req-123", msg.Metadata["request_id"])
		assert.NotContains(t, msg.Metadata, metaKeyTopic)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestTypedEvent(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := NewEvent[testPayload]("test.typed")
	got := make(chan testPayload, 1)
	require.NoError(t, Subscribe(ctx, bridge, event, func(ctx context.Context, p testPayload, msg Message) error {
		got <- p
		return nil
	}))

	require.NoError(t, Publish(ctx, bridge, event, "ada@example.com", testPayload{Kind: "signed_in", Email: "ada@example.com"}, nil))

	select {
	case p := <-got:
		assert.Equal(t, "signed_in", p.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("typed event was not delivered")
	}
}

func TestTracing_RecordsPublishAndProcessSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	bridge := NewWatermillBridgeWithTracer(tp.Tracer("test"))
	t.Cleanup(func() { _ = bridge.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	require.NoError(t, bridge.Subscribe(ctx, "traced.topic", func(ctx context.Context, msg Message) error {
		close(done)
		return nil
	}))
	require.NoError(t, bridge.Publish(ctx, Message{Topic: "traced.topic", Payload: []byte("{}")}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}

	assert.Eventually(t, func() bool {
		names := map[string]bool{}
		for _, s := range recorder.Ended() {
			names[s.Name()] = true
		}
		return names["pubsub.publish.traced.topic"] && names["pubsub.process.traced.topic"]
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSetupTracing(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled tracing", func(t *testing.T) {
		tracer, shutdown, err := SetupTracing(ctx, config.Tracing{Enabled: false})
		require.NoError(t, err)
		_, span := tracer.Start(ctx, "test")
		span.End()
		assert.NoError(t, shutdown(ctx))
	})

	t.Run("enabled tracing with unreachable collector", func(t *testing.T) {
		tracer, shutdown, err := SetupTracing(ctx, config.Tracing{
			Enabled:     true,
			ServiceName: "test-service",
			ZipkinURL:   "http://invalid-url:9411/api/v2/spans",
		})
		require.NoError(t, err)
		require.NotNil(t, tracer)
		// Nothing was recorded, so shutdown has nothing to flush.
		assert.NoError(t, shutdown(ctx))
	})
}
