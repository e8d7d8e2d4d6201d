// Package identity carries the authenticated patient through request contexts.
package identity

import "context"

type ctxKey string

const patientKey ctxKey = "healthcare.patient_id"

// WithPatientID stores the patient id in context.
func WithPatientID(ctx context.Context, patientID string) context.Context {
	return context.WithValue(ctx, patientKey, patientID)
}

// PatientIDFromContext extracts the patient id if present.
func PatientIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(patientKey)
	if val == nil {
		return "", false
	}
	patientID, ok := val.(string)
	return patientID, ok && patientID != ""
}

const emailKey ctxKey = "healthcare.patient_email"

// WithEmail stores the authenticated patient's email address.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the patient's email, or "" when the token carried none.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}
