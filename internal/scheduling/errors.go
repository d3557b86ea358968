package scheduling

import "errors"

// Sentinel errors returned by the scheduler. Handlers map these onto HTTP
// status codes; anything else is treated as an unexpected store failure.
var (
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrPatientProfileNotFound = errors.New("patient profile not found")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrSlotTaken              = errors.New("slot already booked")
	ErrInvalidStatus          = errors.New("invalid appointment status")
	ErrInvalidDate            = errors.New("invalid appointment date, expected YYYY-MM-DD")
	ErrUnknownSlot            = errors.New("time slot is not in the daily grid")
)
