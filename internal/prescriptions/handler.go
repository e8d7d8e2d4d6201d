package prescriptions

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/healthcare-portal/internal/http/httputil"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

const maxUploadBytes = 10 << 20

// Store is the persistence the handler needs.
type Store interface {
	ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error)
	Get(ctx context.Context, patientID, id string) (*Prescription, error)
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	SetFile(ctx context.Context, patientID, id, fileURL string) error
	Delete(ctx context.Context, patientID, id string) error
}

// Handler handles HTTP requests for prescriptions.
type Handler struct {
	store  Store
	files  *FileStore
	loc    *time.Location
	clock  func() time.Time
	logger *logging.Logger
}

// NewHandler creates a prescriptions handler. files may be nil when storage is not configured.
func NewHandler(store Store, files *FileStore, loc *time.Location, logger *logging.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{store: store, files: files, loc: loc, clock: time.Now, logger: logger.Named("prescriptions.http")}
}

// List handles GET /prescriptions?status=all|active|expired&search=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	status, err := ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	all, err := h.store.ListByPatient(r.Context(), patientID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	now := h.clock()
	matched := Filter{Status: status, Search: r.URL.Query().Get("search")}.Apply(all, now)
	views := make([]View, 0, len(matched))
	for _, p := range matched {
		views = append(views, NewView(p, now))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"prescriptions": views, "count": len(views)})
}

// Get handles GET /prescriptions/{prescriptionID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	p, err := h.store.Get(r.Context(), patientID, chi.URLParam(r, "prescriptionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewView(p, h.clock()))
}

// Create handles POST /prescriptions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := req.ToPrescription(patientID, h.loc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.store.Create(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("prescription recorded", "id", created.ID, "patient_id", patientID)
	httputil.WriteJSON(w, http.StatusCreated, NewView(created, h.clock()))
}

// Delete handles DELETE /prescriptions/{prescriptionID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), patientID, chi.URLParam(r, "prescriptionID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadFile handles PUT /prescriptions/{prescriptionID}/file with the raw
// document as the body and ?filename= naming it.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "prescriptionID")
	if _, err := h.store.Get(r.Context(), patientID, id); err != nil {
		h.writeError(w, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = ErrFileTooLarge
		}
		h.writeError(w, err)
		return
	}
	key, err := h.files.Upload(r.Context(), patientID, id, r.URL.Query().Get("filename"), r.Header.Get("Content-Type"), data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.store.SetFile(r.Context(), patientID, id, key); err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "file_url": key})
}

// Download handles GET /prescriptions/{prescriptionID}/download by redirecting
// to a short-lived link for the attached file.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	p, err := h.store.Get(r.Context(), patientID, chi.URLParam(r, "prescriptionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	url, err := h.files.DownloadURL(r.Context(), p.FileURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if msg, ok := httputil.InputError(err); ok {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	switch {
	case errors.Is(err, ErrMissingDoctor), errors.Is(err, ErrNoMedications), errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrEmptyFile):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPrescriptionNotFound), errors.Is(err, ErrNoFile):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrFilesDisabled):
		httputil.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("prescriptions request failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
