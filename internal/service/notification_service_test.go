package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/events"
)

func TestNotificationWebhook(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		received <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.NewNop(), config.EventsConfig{WebhookURL: srv.URL}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:        events.EventTransferAccepted,
		OrderNumber: "ORD-1",
		Actor:       staffActor("B"),
	})
	require.NoError(t, err)

	body := <-received
	assert.Equal(t, string(events.EventTransferAccepted), body["type"])
	assert.Equal(t, "ORD-1", body["orderNumber"])
}

func TestNotificationWebhookFailureSurfacesToDispatcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, config.EventsConfig{WebhookURL: srv.URL}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventAssignmentClaimed, OrderNumber: "ORD-1"})
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestNotificationWithoutWebhook(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, config.EventsConfig{}).RegisterHandlers()
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventAssignmentClaimed}))
}
