package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// ValidStatus reports whether s is one of the four appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment represents a scheduled medical appointment. Appointments are
// never deleted; a cancelled appointment stays on record but no longer
// occupies its slot.
type Appointment struct {
	BaseModel
	DoctorID        string            `gorm:"size:36;index:idx_doctor_day;not null" json:"doctorId"`
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	AppointmentDate string            `gorm:"size:10;index:idx_doctor_day" json:"appointmentDate"` // YYYY-MM-DD
	TimeSlot        string            `gorm:"size:10" json:"timeSlot"`
	Duration        int               `gorm:"default:30" json:"duration"`
	Type            string            `gorm:"size:30" json:"type,omitempty"`
	Method          string            `gorm:"size:30" json:"method,omitempty"`
	Status          AppointmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	Reason          string            `gorm:"size:255" json:"reason"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Symptoms        string            `gorm:"type:text" json:"symptoms,omitempty"`

	// Cancellation metadata, stamped only when status becomes CANCELLED
	CancellationReason string `gorm:"size:255" json:"cancellationReason,omitempty"`
	CancelledBy        string `gorm:"size:36" json:"cancelledBy,omitempty"`

	// Relations
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
