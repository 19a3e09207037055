package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/staff/assign", "POST", 200, 2*time.Millisecond)
	m.RecordRequest("/api/staff/assign", "POST", 200, 4*time.Millisecond)
	m.RecordError("/api/staff/assign", "POST", "CONFLICT")

	snap := m.Snapshot()
	stats := snap.Requests["/api/staff/assign|POST|200"]
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 3.0, stats.AvgLatencyMs, 0.001)
	assert.Equal(t, int64(1), snap.Errors["/api/staff/assign|POST|CONFLICT"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}
