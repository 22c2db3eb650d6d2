package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersByLabel(t *testing.T) {
	m := New()
	m.IncrementEvaluation("renew_no_changes", "renew_unchanged")
	m.IncrementEvaluation("renew_no_changes", "renew_unchanged")
	m.IncrementLookup("business", 0)
	m.IncrementLookup("business", 3)
	m.IncrementLookup("business", 1)

	if got := testutil.ToFloat64(m.Evaluations.WithLabelValues("renew_no_changes", "renew_unchanged")); got != 2 {
		t.Fatalf("expected 2 evaluations got %v", got)
	}
	if got := testutil.ToFloat64(m.Lookups.WithLabelValues("business", OutcomeHit)); got != 2 {
		t.Fatalf("expected 2 hits got %v", got)
	}
	if got := testutil.ToFloat64(m.Lookups.WithLabelValues("business", OutcomeMiss)); got != 1 {
		t.Fatalf("expected 1 miss got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncrementEvaluation("a", "b")
	m.IncrementLookup("street", 1)
	m.ObserveEvaluateLatency(time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveEvaluateLatency(2 * time.Millisecond)
	m.IncrementEvaluation("new_application", "default_new")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"eligibility_evaluations_total", "eligibility_evaluate_duration_seconds_count 1"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("expected %q in metrics output", name)
		}
	}
}

func TestInstancesDoNotShareRegistry(t *testing.T) {
	// Registering twice on the default registry would panic.
	a, b := New(), New()
	a.IncrementEvaluation("x", "y")
	if got := testutil.ToFloat64(b.Evaluations.WithLabelValues("x", "y")); got != 0 {
		t.Fatalf("expected 0 got %v", got)
	}
}
