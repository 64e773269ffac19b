package activity

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/nfrund/wastewise/internal/logging"
	"github.com/nfrund/wastewise/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusRecorder_ReachesAuditor(t *testing.T) {
	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	reg := prometheus.NewRegistry()
	auditor := NewAuditor(logger, reg)
	require.NoError(t, auditor.Start(ctx, bridge))

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := NewBusRecorder(bridge)
	rec.now = func() time.Time { return fixed }

	reqCtx := logging.WithRequestID(ctx, "req-7")
	rec.Record(reqCtx, Event{Kind: SignedIn, Email: "ada@example.com", Role: "USER"})
	rec.Record(reqCtx, Event{Kind: ComplaintFiled, Email: "ada@example.com", Detail: "Other"})

	require.Eventually(t, func() bool { return len(auditor.Recent()) == 2 }, 2*time.Second, 10*time.Millisecond)

	kinds := map[Kind]Event{}
	for _, ev := range auditor.Recent() {
		kinds[ev.Kind] = ev
	}
	require.Contains(t, kinds, SignedIn)
	assert.Equal(t, fixed, kinds[SignedIn].At)
	assert.Equal(t, "USER", kinds[SignedIn].Role)
	assert.Equal(t, 1.0, testutil.ToFloat64(auditor.counter.WithLabelValues(string(ComplaintFiled))))
	assert.Contains(t, logs.String(), `"request_id":"req-7"`)
}

func TestAuditor_KeepsBoundedHistory(t *testing.T) {
	auditor := NewAuditor(slog.Default(), nil)
	auditor.limit = 3
	for i := 0; i < 5; i++ {
		require.NoError(t, auditor.handle(context.Background(), Event{Kind: SignedOut, Detail: string(rune('a' + i))}, pubsub.Message{}))
	}
	recent := auditor.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "c", recent[0].Detail)
	assert.Equal(t, "e", recent[2].Detail)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(context.Background(), Event{Kind: SignedIn})
}
