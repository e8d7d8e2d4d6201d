// Package prescriptions stores prescriptions, derives their expiry and serves attached files.
package prescriptions

import (
	"strings"
	"time"

	"github.com/wolfman30/healthcare-portal/internal/scheduling"
)

// DefaultDurationDays applies when a prescription has no explicit duration.
const DefaultDurationDays = 30

// Medication is one line item of a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// Prescription is a doctor's prescription for a patient.
type Prescription struct {
	ID               string       `json:"id"`
	PatientID        string       `json:"patient_id"`
	DoctorName       string       `json:"doctor_name"`
	PrescriptionDate time.Time    `json:"prescription_date"`
	Medications      []Medication `json:"medications"`
	Instructions     string       `json:"instructions,omitempty"`
	DurationDays     *int         `json:"duration_days,omitempty"`
	FileURL          string       `json:"file_url,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// ExpiresAt is the prescription date plus its duration, or DefaultDurationDays.
func (p *Prescription) ExpiresAt() time.Time {
	days := DefaultDurationDays
	if p.DurationDays != nil && *p.DurationDays > 0 {
		days = *p.DurationDays
	}
	return p.PrescriptionDate.AddDate(0, 0, days)
}

// Expired reports whether the prescription lapsed before now.
func (p *Prescription) Expired(now time.Time) bool {
	return p.ExpiresAt().Before(now)
}

// View is the API representation with derived fields.
type View struct {
	*Prescription
	ExpiresAt time.Time `json:"expires_at"`
	Expired   bool      `json:"expired"`
	HasFile   bool      `json:"has_file"`
}

// NewView derives the expiry fields at now.
func NewView(p *Prescription, now time.Time) View {
	return View{
		Prescription: p,
		ExpiresAt:    p.ExpiresAt(),
		Expired:      p.Expired(now),
		HasFile:      p.FileURL != "",
	}
}

// CreateRequest is the body of POST /prescriptions.
type CreateRequest struct {
	DoctorName       string       `json:"doctor_name"`
	PrescriptionDate string       `json:"prescription_date"`
	Medications      []Medication `json:"medications"`
	Instructions     string       `json:"instructions"`
	DurationDays     *int         `json:"duration_days"`
}

// ToPrescription validates the request.
func (r *CreateRequest) ToPrescription(patientID string, loc *time.Location) (*Prescription, error) {
	if strings.TrimSpace(r.DoctorName) == "" {
		return nil, ErrMissingDoctor
	}
	date, err := scheduling.ParseDate(r.PrescriptionDate, loc)
	if err != nil {
		return nil, err
	}
	meds := make([]Medication, 0, len(r.Medications))
	for _, m := range r.Medications {
		if strings.TrimSpace(m.Name) == "" {
			continue
		}
		meds = append(meds, Medication{
			Name:      strings.TrimSpace(m.Name),
			Dosage:    strings.TrimSpace(m.Dosage),
			Frequency: strings.TrimSpace(m.Frequency),
		})
	}
	if len(meds) == 0 {
		return nil, ErrNoMedications
	}
	if r.DurationDays != nil && *r.DurationDays < 0 {
		return nil, ErrInvalidDuration
	}
	return &Prescription{
		PatientID:        patientID,
		DoctorName:       strings.TrimSpace(r.DoctorName),
		PrescriptionDate: date,
		Medications:      meds,
		Instructions:     strings.TrimSpace(r.Instructions),
		DurationDays:     r.DurationDays,
	}, nil
}
