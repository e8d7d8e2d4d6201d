package dashboard

import (
	"net/http"

	"github.com/wolfman30/healthcare-portal/internal/http/httputil"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Handler serves GET /dashboard.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("dashboard: service cannot be nil")
	}
	return &Handler{service: service, logger: logger.Named("dashboard.http")}
}

// Get handles GET /dashboard.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), patientID)
	if err != nil {
		h.logger.Error("dashboard request failed", "error", err, "patient_id", patientID)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
