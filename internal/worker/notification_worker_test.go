package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/service"
	"github.com/spec-kit/farmstore-service/internal/testutil"
)

const slowWebhook = 700 * time.Millisecond

func TestClaimDoesNotWaitForSlowWebhook(t *testing.T) {
	received := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(slowWebhook)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		received <- body["type"].(string)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	w := NewNotificationWorker(8, zap.NewNop())
	w.Register(service.NewNotificationService(w, zap.NewNop(), config.EventsConfig{WebhookURL: srv.URL}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assignments := service.NewAssignmentService(service.AssignmentDependencies{
		AssignmentRepo: testutil.NewAssignments(testutil.NewClock()),
		Dispatcher:     w,
		Logger:         zap.NewNop(),
	})

	start := time.Now()
	_, err := assignments.Claim(context.Background(), "A", service.ClaimInput{OrderNumber: "ORD-1"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), slowWebhook/2)

	select {
	case typ := <-received:
		assert.Equal(t, string(events.EventAssignmentClaimed), typ)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook never called")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	w := NewNotificationWorker(1, nil)
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventAssignmentClaimed}))
	assert.ErrorIs(t, w.Publish(context.Background(), events.Event{Type: events.EventAssignmentClaimed}), ErrQueueFull)
}

func TestRunFlushesQueuedEventsOnStop(t *testing.T) {
	w := NewNotificationWorker(4, nil)
	var got []events.Event
	events.SubscribeAll(w, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventAssignmentClaimed, OrderNumber: "ORD-1"}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventAssignmentCompleted, OrderNumber: "ORD-1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	require.Len(t, got, 2)
	assert.Equal(t, events.EventAssignmentClaimed, got[0].Type)
	assert.Equal(t, events.EventAssignmentCompleted, got[1].Type)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
}
