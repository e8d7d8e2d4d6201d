package healthmetrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/healthcare-portal/internal/http/httputil"
	"github.com/wolfman30/healthcare-portal/internal/vitals"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Handler handles HTTP requests for health metrics.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new health metrics handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("healthmetrics.http")}
}

// ListMetricsResponse is the response for listing metrics.
type ListMetricsResponse struct {
	Metrics []*Metric `json:"metrics"`
	Count   int       `json:"count"`
}

// AdvisoriesResponse carries the advisor output for a patient.
type AdvisoriesResponse struct {
	Advisories vitals.Advice `json:"advisories"`
	Messages   []string      `json:"messages"`
}

// Create handles POST /metrics.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}

	var req CreateMetricRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	metric, err := h.service.Record(r.Context(), patientID, &req)
	if err != nil {
		if msg, ok := httputil.InputError(err); ok {
			httputil.WriteError(w, http.StatusBadRequest, msg)
			return
		}
		h.logger.Error("failed to record metric", "error", err, "patient_id", patientID)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to record metric")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, metric)
}

// List handles GET /metrics.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	metrics, err := h.service.List(r.Context(), patientID, limit)
	if err != nil {
		h.logger.Error("failed to list metrics", "error", err, "patient_id", patientID)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list metrics")
		return
	}
	if metrics == nil {
		metrics = []*Metric{}
	}
	httputil.WriteJSON(w, http.StatusOK, ListMetricsResponse{Metrics: metrics, Count: len(metrics)})
}

// Delete handles DELETE /metrics/{metricID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	metricID := chi.URLParam(r, "metricID")
	if metricID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing metric id")
		return
	}

	if err := h.service.Delete(r.Context(), patientID, metricID); err != nil {
		if errors.Is(err, ErrMetricNotFound) {
			httputil.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to delete metric", "error", err, "metric_id", metricID)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete metric")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Advisories handles GET /metrics/advisories.
func (h *Handler) Advisories(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}

	advice, err := h.service.AdviseRecent(r.Context(), patientID, DefaultAdvisoryWindow)
	if err != nil {
		h.logger.Error("failed to evaluate advisories", "error", err, "patient_id", patientID)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to evaluate advisories")
		return
	}
	if advice == nil {
		advice = vitals.Advice{}
	}
	httputil.WriteJSON(w, http.StatusOK, AdvisoriesResponse{Advisories: advice, Messages: advice.Messages()})
}
