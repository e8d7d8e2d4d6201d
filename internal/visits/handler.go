package visits

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/healthcare-portal/internal/http/httputil"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Store is the persistence the handler needs.
type Store interface {
	ListByPatient(ctx context.Context, patientID string, limit int) ([]*Visit, error)
	Get(ctx context.Context, patientID, id string) (*Visit, error)
	Create(ctx context.Context, v *Visit) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	Delete(ctx context.Context, patientID, id string) error
}

// Handler handles HTTP requests for visit history.
type Handler struct {
	store  Store
	loc    *time.Location
	logger *logging.Logger
}

// NewHandler creates a visits handler; loc interprets visit dates.
func NewHandler(store Store, loc *time.Location, logger *logging.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{store: store, loc: loc, logger: logger.Named("visits.http")}
}

// List handles GET /visits with optional filter parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	filter, err := FilterFromQuery(r.URL.Query(), h.loc)
	if err != nil {
		h.writeError(w, err)
		return
	}

	all, err := h.store.ListByPatient(r.Context(), patientID, 0)
	if err != nil {
		h.writeError(w, err)
		return
	}
	matched := filter.Apply(all)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"visits": matched, "count": len(matched), "total": len(all)})
}

// Get handles GET /visits/{visitID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	v, err := h.store.Get(r.Context(), patientID, chi.URLParam(r, "visitID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// Create handles POST /visits.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	var req VisitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := req.ToVisit(patientID, h.loc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.store.Create(r.Context(), v)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("visit recorded", "id", created.ID, "patient_id", patientID)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /visits/{visitID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	var req VisitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := req.ToVisit(patientID, h.loc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	v.ID = chi.URLParam(r, "visitID")
	if err := h.store.Update(r.Context(), v); err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// Delete handles DELETE /visits/{visitID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), patientID, chi.URLParam(r, "visitID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if msg, ok := httputil.InputError(err); ok {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	switch {
	case errors.Is(err, ErrMissingDoctor), errors.Is(err, ErrMissingHospital):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrVisitNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("visits request failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
