package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPortalMetricsObserve(t *testing.T) {
	m := NewPortalMetrics(prometheus.NewRegistry())
	m.ObserveAdvisory("blood_pressure", "elevated")
	m.ObserveBooking("scheduled")
	m.ObserveNotification("sendgrid", nil)
	m.ObserveNotification("sendgrid", errors.New("boom"))
}

func TestPortalMetricsNilSafe(t *testing.T) {
	var m *PortalMetrics
	m.ObserveAdvisory("weight", "gain")
	m.ObserveBooking("rejected")
	m.ObserveNotification("ses", nil)

	called := false
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatalf("expected nil metrics middleware to pass through")
	}
}

func TestPortalMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPortalMetrics(reg)
	m.ObserveAdvisory("heart_rate", "low")
	m.ObserveAdvisory("heart_rate", "low")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var found *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "healthcare_vitals_advisories_total" {
			found = f
		}
	}
	if found == nil {
		t.Fatalf("advisories counter not registered")
	}
	if got := found.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 advisories, got %v", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPortalMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/visits/{visitID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/visits/abc", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "healthcare_http_request_duration_seconds" {
			continue
		}
		labels := map[string]string{}
		for _, lp := range f.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["route"] != "/api/visits/{visitID}" || labels["status"] != "404" {
			t.Fatalf("unexpected labels %v", labels)
		}
		return
	}
	t.Fatalf("latency histogram not found")
}

func TestMiddlewareCollapsesUnmatchedPaths(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPortalMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})
	for i := 0; i < 20; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/wp-admin/%d", i), nil))
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "healthcare_http_request_duration_seconds" {
			continue
		}
		if len(f.GetMetric()) != 1 {
			t.Fatalf("expected a single series, got %d", len(f.GetMetric()))
		}
		series := f.GetMetric()[0]
		for _, lp := range series.GetLabel() {
			if lp.GetName() == "route" && lp.GetValue() != "unmatched" {
				t.Fatalf("unexpected route label %q", lp.GetValue())
			}
		}
		if got := series.GetHistogram().GetSampleCount(); got != 20 {
			t.Fatalf("expected 20 samples, got %d", got)
		}
		return
	}
	t.Fatalf("latency histogram not found")
}
