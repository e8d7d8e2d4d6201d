package directory

import "errors"

var (
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrMissingID        = errors.New("directory: id is required")
)
