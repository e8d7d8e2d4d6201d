// Package appointments books, lists and cancels patient appointments.
package appointments

import (
	"strings"
	"time"

	"github.com/wolfman30/healthcare-portal/internal/directory"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked visit with a doctor.
type Appointment struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id"`
	DoctorID        string    `json:"doctor_id"`
	HospitalID      string    `json:"hospital_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Reason          string    `json:"reason,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`

	Doctor   *DoctorSummary   `json:"doctor,omitempty"`
	Hospital *HospitalSummary `json:"hospital,omitempty"`
}

// DoctorSummary is the doctor descriptor attached to listed appointments.
type DoctorSummary struct {
	FullName       string `json:"full_name"`
	Specialization string `json:"specialization"`
	Department     string `json:"department"`
}

// HospitalSummary is the hospital descriptor attached to listed appointments.
type HospitalSummary struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func summarizeDoctor(d *directory.Doctor) *DoctorSummary {
	if d == nil {
		return nil
	}
	return &DoctorSummary{FullName: d.FullName, Specialization: d.Specialization, Department: d.Department}
}

func summarizeHospital(h *directory.Hospital) *HospitalSummary {
	if h == nil {
		return nil
	}
	return &HospitalSummary{Name: h.Name, Address: h.Address, City: h.City}
}

// BookRequest is the body of POST /appointments.
type BookRequest struct {
	HospitalID string `json:"hospital_id"`
	DoctorID   string `json:"doctor_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Reason     string `json:"reason,omitempty"`
}

// Validate checks required fields.
func (r *BookRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.HospitalID) == "":
		return invalid("hospital_id is required")
	case strings.TrimSpace(r.DoctorID) == "":
		return invalid("doctor_id is required")
	case strings.TrimSpace(r.Date) == "":
		return invalid("date is required")
	case strings.TrimSpace(r.Time) == "":
		return invalid("time is required")
	}
	return nil
}

// Patient identifies who is booking.
type Patient struct {
	ID    string
	Email string
}
