package appointments

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/healthcare-portal/internal/directory"
	"github.com/wolfman30/healthcare-portal/internal/notify"
	"github.com/wolfman30/healthcare-portal/internal/scheduling"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

var appointmentsTracer = otel.Tracer("healthcare.internal.appointments")

// Directory resolves doctors and hospitals.
type Directory interface {
	GetDoctor(ctx context.Context, id string) (*directory.Doctor, error)
	GetHospital(ctx context.Context, id string) (*directory.Hospital, error)
}

// PatientNamer looks up the display name used in confirmation emails.
type PatientNamer interface {
	PatientName(ctx context.Context, patientID string) (string, error)
}

// BookingObserver counts booking outcomes.
type BookingObserver interface {
	ObserveBooking(outcome string)
}

// Booking outcomes reported to the observer.
const (
	OutcomeBooked   = "booked"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Service books appointments against the directory and the slot grid.
type Service struct {
	repo       Repository
	directory  Directory
	assistant  *scheduling.Assistant
	dispatcher notify.Dispatcher
	patients   PatientNamer
	observer   BookingObserver
	logger     *logging.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithDispatcher sends booking confirmations through d.
func WithDispatcher(d notify.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = d }
}

// WithPatientNamer resolves patient names for confirmations.
func WithPatientNamer(p PatientNamer) Option {
	return func(s *Service) { s.patients = p }
}

// WithObserver records booking outcomes.
func WithObserver(o BookingObserver) Option {
	return func(s *Service) { s.observer = o }
}

// NewService constructs an appointments service.
func NewService(repo Repository, dir Directory, assistant *scheduling.Assistant, logger *logging.Logger, opts ...Option) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if dir == nil {
		panic("appointments: directory required")
	}
	if assistant == nil {
		assistant = scheduling.NewAssistant(nil, nil)
	}
	s := &Service{
		repo:      repo,
		directory: dir,
		assistant: assistant,
		logger:    logger.Named("appointments"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slots returns the bookable slots for a YYYY-MM-DD date.
func (s *Service) Slots(rawDate string) ([]scheduling.TimeSlot, error) {
	date, err := s.assistant.ParseDate(rawDate)
	if err != nil {
		return nil, err
	}
	return s.assistant.AvailableSlots(date), nil
}

// Book validates the selection at submission time, persists a scheduled
// appointment, and hands a confirmation to the dispatcher. Confirmation
// delivery never affects the booking result.
func (s *Service) Book(ctx context.Context, patient Patient, req *BookRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("healthcare.patient_id", patient.ID),
		attribute.String("healthcare.doctor_id", req.DoctorID),
		attribute.String("healthcare.hospital_id", req.HospitalID),
	)

	appt, doctor, hospital, err := s.book(ctx, patient, req)
	if err != nil {
		span.RecordError(err)
		s.observe(bookingOutcome(err))
		return nil, err
	}
	s.observe(OutcomeBooked)
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"patient_id", patient.ID,
		"doctor_id", appt.DoctorID,
		"appointment_date", appt.AppointmentDate,
	)

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, s.confirmation(ctx, patient, appt, doctor, hospital))
	}

	appt.Doctor = summarizeDoctor(doctor)
	appt.Hospital = summarizeHospital(hospital)
	return appt, nil
}

func (s *Service) book(ctx context.Context, patient Patient, req *BookRequest) (*Appointment, *directory.Doctor, *directory.Hospital, error) {
	if strings.TrimSpace(patient.ID) == "" {
		return nil, nil, nil, invalid("patient is required")
	}
	if err := req.Validate(); err != nil {
		return nil, nil, nil, err
	}

	doctor, err := s.directory.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, nil, nil, err
	}
	hospital, err := s.directory.GetHospital(ctx, req.HospitalID)
	if err != nil {
		return nil, nil, nil, err
	}
	if doctor.HospitalID != hospital.ID {
		return nil, nil, nil, ErrDoctorHospitalMismatch
	}

	date, err := s.assistant.ParseDate(req.Date)
	if err != nil {
		return nil, nil, nil, err
	}
	if !doctor.AvailableOn(date.Weekday()) {
		return nil, nil, nil, ErrDoctorUnavailable
	}
	at, err := s.assistant.ValidateSelection(date, req.Time)
	if err != nil {
		return nil, nil, nil, err
	}

	appt, err := s.repo.Create(ctx, &Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		HospitalID:      hospital.ID,
		AppointmentDate: at,
		Reason:          strings.TrimSpace(req.Reason),
		Status:          StatusScheduled,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return appt, doctor, hospital, nil
}

func (s *Service) confirmation(ctx context.Context, patient Patient, appt *Appointment, doctor *directory.Doctor, hospital *directory.Hospital) notify.Confirmation {
	var name string
	if s.patients != nil {
		n, err := s.patients.PatientName(ctx, patient.ID)
		if err != nil {
			s.logger.Warn("failed to resolve patient name for confirmation", "error", err, "patient_id", patient.ID)
		}
		name = n
	}
	return notify.Confirmation{
		AppointmentID:        appt.ID,
		PatientName:          name,
		PatientEmail:         patient.Email,
		AppointmentAt:        appt.AppointmentDate.In(s.assistant.Location()),
		DoctorName:           doctor.FullName,
		DoctorSpecialization: doctor.Specialization,
		DoctorDepartment:     doctor.Department,
		HospitalName:         hospital.Name,
		HospitalAddress:      hospital.Address,
		Reason:               appt.Reason,
	}
}

// List returns the patient's appointments in ascending date order with
// doctor and hospital descriptors attached where the directory has them.
func (s *Service) List(ctx context.Context, patientID string) ([]*Appointment, error) {
	appts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, appts)
	return appts, nil
}

// Upcoming returns up to limit scheduled appointments that have not started yet.
func (s *Service) Upcoming(ctx context.Context, patientID string, limit int) ([]*Appointment, error) {
	appts, err := s.repo.Upcoming(ctx, patientID, s.assistant.Now(), limit)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, appts)
	return appts, nil
}

// Cancel marks a scheduled appointment as cancelled.
func (s *Service) Cancel(ctx context.Context, patientID, id string) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("healthcare.appointment_id", id))

	if err := s.repo.Cancel(ctx, patientID, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", id, "patient_id", patientID)
	return nil
}

func (s *Service) decorate(ctx context.Context, appts []*Appointment) {
	doctors := make(map[string]*directory.Doctor)
	hospitals := make(map[string]*directory.Hospital)
	for _, a := range appts {
		d, ok := doctors[a.DoctorID]
		if !ok {
			var err error
			if d, err = s.directory.GetDoctor(ctx, a.DoctorID); err != nil {
				s.logger.Warn("appointment doctor missing from directory", "error", err, "doctor_id", a.DoctorID)
			}
			doctors[a.DoctorID] = d
		}
		h, ok := hospitals[a.HospitalID]
		if !ok {
			var err error
			if h, err = s.directory.GetHospital(ctx, a.HospitalID); err != nil {
				s.logger.Warn("appointment hospital missing from directory", "error", err, "hospital_id", a.HospitalID)
			}
			hospitals[a.HospitalID] = h
		}
		a.Doctor = summarizeDoctor(d)
		a.Hospital = summarizeHospital(h)
	}
}

func (s *Service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveBooking(outcome)
	}
}

func bookingOutcome(err error) string {
	var parseErr *scheduling.ParseError
	switch {
	case errors.As(err, &parseErr),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrDoctorHospitalMismatch),
		errors.Is(err, ErrDoctorUnavailable),
		errors.Is(err, ErrSlotTaken),
		errors.Is(err, scheduling.ErrSlotInPast),
		errors.Is(err, directory.ErrDoctorNotFound),
		errors.Is(err, directory.ErrHospitalNotFound):
		return OutcomeRejected
	}
	return OutcomeFailed
}
