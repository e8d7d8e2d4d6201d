package notify

import (
	"fmt"
	"strings"
	"time"
)

const (
	confirmationSubject  = "Appointment Confirmation"
	confirmationCategory = "appointment-confirmation"
	confirmationLayout   = "January 2, 2006 at 3:04 PM"
)

// Confirmation is the payload handed to the notification service after a booking.
type Confirmation struct {
	AppointmentID        string    `json:"appointment_id"`
	PatientName          string    `json:"patient_name"`
	PatientEmail         string    `json:"patient_email"`
	AppointmentAt        time.Time `json:"appointment_at"`
	DoctorName           string    `json:"doctor_name"`
	DoctorSpecialization string    `json:"doctor_specialization"`
	DoctorDepartment     string    `json:"doctor_department"`
	HospitalName         string    `json:"hospital_name"`
	HospitalAddress      string    `json:"hospital_address"`
	Reason               string    `json:"reason,omitempty"`
}

// BuildConfirmationEmail renders the patient-facing confirmation message.
func BuildConfirmationEmail(c Confirmation) EmailMessage {
	name := strings.TrimSpace(c.PatientName)
	if name == "" {
		name = "Patient"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "Your appointment has been confirmed for %s.\n\n", c.AppointmentAt.Format(confirmationLayout))
	b.WriteString("Details:\n")
	fmt.Fprintf(&b, "- Doctor: Dr. %s\n", c.DoctorName)
	fmt.Fprintf(&b, "- Specialization: %s\n", c.DoctorSpecialization)
	fmt.Fprintf(&b, "- Department: %s\n", c.DoctorDepartment)
	fmt.Fprintf(&b, "- Hospital: %s\n", c.HospitalName)
	fmt.Fprintf(&b, "- Address: %s\n", c.HospitalAddress)
	if reason := strings.TrimSpace(c.Reason); reason != "" {
		fmt.Fprintf(&b, "- Reason: %s\n", reason)
	}
	b.WriteString("\nPlease arrive 15 minutes before your scheduled appointment time.\n")
	b.WriteString("If you need to reschedule or cancel, please do so at least 24 hours in advance.\n\n")
	b.WriteString("Best regards,\nHealthCare Team\n")

	return EmailMessage{
		To:       c.PatientEmail,
		ToName:   name,
		Subject:  confirmationSubject,
		Body:     b.String(),
		Category: confirmationCategory,
	}
}
