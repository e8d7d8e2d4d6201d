package profiles

import "errors"

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrMissingName      = errors.New("full_name is required")
	ErrInvalidBloodType = errors.New("blood_type must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
)
