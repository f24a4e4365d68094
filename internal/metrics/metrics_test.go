package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordSend(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.RecordSend("slack", nil)
	m.RecordSend("slack", nil)
	m.RecordSend("email", errors.New("smtp down"))

	if got := testutil.ToFloat64(m.deliveries.WithLabelValues("slack", "success")); got != 2 {
		t.Errorf("expected 2 slack successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.deliveries.WithLabelValues("email", "failure")); got != 1 {
		t.Errorf("expected 1 email failure, got %v", got)
	}
}

func TestMetrics_RecordDispatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.RecordDispatch("all_succeeded", 50*time.Millisecond)
	m.RecordWebhook("accepted")

	count, err := testutil.GatherAndCount(reg, "follower_notifier_fanout_duration_seconds")
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one histogram series, got %d", count)
	}
	if got := testutil.ToFloat64(m.webhookRequests.WithLabelValues("accepted")); got != 1 {
		t.Errorf("expected 1 accepted webhook, got %v", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordWebhook("accepted")
	m.RecordSend("slack", nil)
	m.RecordDispatch("all_failed", time.Second)
}

func TestNew_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Fatal("expected second registration on the same registry to fail")
	}
}
