package appointments

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest wraps booking input problems.
	ErrInvalidRequest = errors.New("invalid appointment request")

	// ErrAppointmentNotFound is returned when the appointment does not exist for the patient.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrNotCancellable is returned when cancelling an appointment that is not scheduled.
	ErrNotCancellable = errors.New("only scheduled appointments can be cancelled")

	// ErrDoctorHospitalMismatch is returned when the doctor does not practice at the chosen hospital.
	ErrDoctorHospitalMismatch = errors.New("doctor does not practice at the selected hospital")

	// ErrDoctorUnavailable is returned when the doctor does not see patients on the chosen weekday.
	ErrDoctorUnavailable = errors.New("doctor is not available on the selected day")

	// ErrSlotTaken is returned when the doctor already has a scheduled appointment at that time.
	ErrSlotTaken = errors.New("the selected time slot is already booked")
)

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
}
