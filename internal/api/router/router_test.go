package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/healthcare-portal/internal/appointments"
	"github.com/wolfman30/healthcare-portal/internal/directory"
	"github.com/wolfman30/healthcare-portal/internal/healthmetrics"
	httpmiddleware "github.com/wolfman30/healthcare-portal/internal/http/middleware"
	"github.com/wolfman30/healthcare-portal/internal/observability/metrics"
	"github.com/wolfman30/healthcare-portal/internal/scheduling"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

const testSecret = "router-secret"

var ist = time.FixedZone("IST", 5*3600+1800)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := directory.NewStore(rdb)
	err := store.Seed(context.Background(), &directory.Seed{
		Hospitals: []directory.Hospital{{ID: "h-1", Name: "City General", Address: "12 Ring Road", City: "Mumbai"}},
		Doctors:   []directory.Doctor{{ID: "d-1", HospitalID: "h-1", FullName: "Anita Mehta", Specialization: "Cardiology"}},
	})
	if err != nil {
		t.Fatalf("seed directory: %v", err)
	}

	reg := prometheus.NewRegistry()
	portalMetrics := metrics.NewPortalMetrics(reg)
	now := func() time.Time { return time.Date(2026, 3, 4, 13, 10, 0, 0, ist) }
	assistant := scheduling.NewAssistant(ist, now)

	metricsSvc := healthmetrics.NewService(healthmetrics.NewInMemoryRepository(), ist, portalMetrics, logger)
	apptSvc := appointments.NewService(appointments.NewInMemoryRepository(), store, assistant, logger,
		appointments.WithObserver(portalMetrics))

	return New(&Config{
		Logger:         logger,
		Metrics:        healthmetrics.NewHandler(metricsSvc, logger),
		Directory:      directory.NewHandler(store, ist, logger),
		Appointments:   appointments.NewHandler(apptSvc, logger),
		PortalMetrics:  portalMetrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		JWTSecret:      testSecret,
	})
}

func authed(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	token, err := httpmiddleware.SignPatientToken(testSecret, "p-1", "priya@example.com", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", resp["status"])
	}
}

func TestRouterRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/metrics", "/api/hospitals", "/api/appointments"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusUnauthorized, rr.Code)
		}
	}
}

func TestRouterMetricsAndAdvisories(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodPost, "/api/metrics", map[string]any{"metric_type": "heart_rate", "value": "118"}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodPost, "/api/metrics", map[string]any{"metric_type": "heart_rate", "value": "fast"}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for non-numeric value, got %d", http.StatusBadRequest, rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodGet, "/api/metrics/advisories", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp healthmetrics.AdvisoriesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode advisories: %v", err)
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("expected one advisory, got %v", resp.Messages)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !bytes.Contains(rr.Body.Bytes(), []byte("healthcare_vitals_advisories_total")) {
		t.Fatalf("expected advisory counter in /metrics output")
	}
}

func TestRouterBookingFlow(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodGet, "/api/hospitals/h-1/doctors", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodGet, "/api/appointments/slots?date=2026-03-04", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	booking := map[string]string{"hospital_id": "h-1", "doctor_id": "d-1", "date": "2026-03-05", "time": "10:30 AM"}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodPost, "/api/appointments", booking))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	var appt appointments.Appointment
	if err := json.NewDecoder(rr.Body).Decode(&appt); err != nil {
		t.Fatalf("decode appointment: %v", err)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodPost, "/api/appointments", booking))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status %d for double booking, got %d", http.StatusConflict, rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authed(t, http.MethodPost, "/api/appointments/"+appt.ID+"/cancel", nil))
	if rr.Code >= 300 {
		t.Fatalf("expected cancel to succeed, got %d", rr.Code)
	}
}
