package appointments

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/healthcare-portal/internal/directory"
	"github.com/wolfman30/healthcare-portal/internal/http/httputil"
	"github.com/wolfman30/healthcare-portal/internal/identity"
	"github.com/wolfman30/healthcare-portal/internal/scheduling"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("appointments.http")}
}

// SlotsResponse lists the bookable slots for a date.
type SlotsResponse struct {
	Date  string                `json:"date"`
	Slots []scheduling.TimeSlot `json:"slots"`
}

// Slots handles GET /appointments/slots?date=YYYY-MM-DD.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	slots, err := h.service.Slots(date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SlotsResponse{Date: date, Slots: slots})
}

// Book handles POST /appointments.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}

	var req BookRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patient := Patient{ID: patientID, Email: identity.EmailFromContext(r.Context())}
	appt, err := h.service.Book(r.Context(), patient, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, appt)
}

// List handles GET /appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}

	appts, err := h.service.List(r.Context(), patientID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"appointments": appts, "count": len(appts)})
}

// Cancel handles POST /appointments/{appointmentID}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.PatientID(w, r)
	if !ok {
		return
	}
	appointmentID := chi.URLParam(r, "appointmentID")

	if err := h.service.Cancel(r.Context(), patientID, appointmentID); err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"id": appointmentID, "status": string(StatusCancelled)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if msg, ok := httputil.InputError(err); ok {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrDoctorHospitalMismatch):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, directory.ErrDoctorNotFound),
		errors.Is(err, directory.ErrHospitalNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scheduling.ErrSlotInPast),
		errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrDoctorUnavailable),
		errors.Is(err, ErrNotCancellable):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("appointment request failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
