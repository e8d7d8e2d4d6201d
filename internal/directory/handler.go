package directory

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/healthcare-portal/internal/http/httputil"
	"github.com/wolfman30/healthcare-portal/internal/scheduling"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Handler serves the read-only directory endpoints.
type Handler struct {
	store  *Store
	loc    *time.Location
	logger *logging.Logger
}

// NewHandler creates a directory handler. loc interprets the optional date filter.
func NewHandler(store *Store, loc *time.Location, logger *logging.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{store: store, loc: loc, logger: logger.Named("directory.http")}
}

// ListHospitals handles GET /hospitals.
func (h *Handler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.store.ListHospitals(r.Context())
	if err != nil {
		h.logger.Error("failed to list hospitals", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list hospitals")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"hospitals": hospitals})
}

// ListDoctors handles GET /hospitals/{hospitalID}/doctors. An optional
// ?date=YYYY-MM-DD keeps only doctors available on that weekday.
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "hospitalID")
	if _, err := h.store.GetHospital(r.Context(), hospitalID); err != nil {
		if errors.Is(err, ErrHospitalNotFound) {
			httputil.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load hospital", "error", err, "hospital_id", hospitalID)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list doctors")
		return
	}

	doctors, err := h.store.ListDoctors(r.Context(), hospitalID)
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err, "hospital_id", hospitalID)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list doctors")
		return
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := scheduling.ParseDate(raw, h.loc)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		available := doctors[:0]
		for _, d := range doctors {
			if d.AvailableOn(date.Weekday()) {
				available = append(available, d)
			}
		}
		doctors = available
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"doctors": doctors})
}
