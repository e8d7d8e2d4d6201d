package visits

import "errors"

var (
	ErrVisitNotFound   = errors.New("visit not found")
	ErrMissingDoctor   = errors.New("doctor_name is required")
	ErrMissingHospital = errors.New("hospital_name is required")
)
