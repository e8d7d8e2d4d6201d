// Package visits records past consultations and filters the patient's visit history.
package visits

import (
	"strings"
	"time"

	"github.com/wolfman30/healthcare-portal/internal/scheduling"
)

// Visit is one past consultation.
type Visit struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	DoctorName     string    `json:"doctor_name"`
	HospitalName   string    `json:"hospital_name"`
	VisitDate      time.Time `json:"visit_date"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// VisitRequest is the create/update body.
type VisitRequest struct {
	DoctorName     string `json:"doctor_name"`
	HospitalName   string `json:"hospital_name"`
	VisitDate      string `json:"visit_date"`
	Diagnosis      string `json:"diagnosis"`
	Notes          string `json:"notes"`
	Specialization string `json:"specialization"`
}

// ToVisit validates the request and builds a visit for patientID.
func (r *VisitRequest) ToVisit(patientID string, loc *time.Location) (*Visit, error) {
	if strings.TrimSpace(r.DoctorName) == "" {
		return nil, ErrMissingDoctor
	}
	if strings.TrimSpace(r.HospitalName) == "" {
		return nil, ErrMissingHospital
	}
	date, err := scheduling.ParseDate(r.VisitDate, loc)
	if err != nil {
		return nil, err
	}
	return &Visit{
		PatientID:      patientID,
		DoctorName:     strings.TrimSpace(r.DoctorName),
		HospitalName:   strings.TrimSpace(r.HospitalName),
		VisitDate:      date,
		Diagnosis:      strings.TrimSpace(r.Diagnosis),
		Notes:          strings.TrimSpace(r.Notes),
		Specialization: strings.TrimSpace(r.Specialization),
	}, nil
}
