package healthmetrics

import "errors"

var (
	// ErrMetricNotFound is returned when a metric does not exist for the patient.
	ErrMetricNotFound = errors.New("metric not found")

	// ErrMissingPatient is returned when a write has no owning patient.
	ErrMissingPatient = errors.New("patient id is required")
)
