package profiles

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wolfman30/healthcare-portal/internal/http/httputil"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Store is the persistence the handler needs.
type Store interface {
	Get(ctx context.Context, patientID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
}

// Handler serves the patient's own profile.
type Handler struct {
	store  Store
	loc    *time.Location
	logger *logging.Logger
}

// NewHandler creates a profile handler.
func NewHandler(store Store, loc *time.Location, logger *logging.Logger) *Handler {
	if store == nil {
		panic("profiles: store cannot be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{store: store, loc: loc, logger: logger.Named("profiles.http")}
}

// Get handles GET /profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	p, err := h.store.Get(r.Context(), patientID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// Update handles PUT /profile.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := req.ToProfile(patientID, h.loc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	saved, err := h.store.Upsert(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("profile updated", "patient_id", patientID)
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if msg, ok := httputil.InputError(err); ok {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	switch {
	case errors.Is(err, ErrMissingName), errors.Is(err, ErrInvalidBloodType):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProfileNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("profile request failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
