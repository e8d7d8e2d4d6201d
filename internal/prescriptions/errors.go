package prescriptions

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrMissingDoctor        = errors.New("doctor_name is required")
	ErrNoMedications        = errors.New("at least one medication is required")
	ErrInvalidDuration      = errors.New("duration_days cannot be negative")
	ErrInvalidStatus        = errors.New("status must be all, active or expired")
	ErrNoFile               = errors.New("prescription has no attached file")
	ErrFilesDisabled        = errors.New("prescription file storage is not configured")
	ErrEmptyFile            = errors.New("uploaded file is empty")
	ErrFileTooLarge         = errors.New("uploaded file exceeds 10MB")
)
