package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Medication is one prescribed item on a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// MedicationList is a []Medication persisted as a JSON column. The
// in-memory value is always the decoded slice.
type MedicationList []Medication

// Value implements driver.Valuer.
func (l MedicationList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *MedicationList) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("cannot scan %T into MedicationList", src)
	}
	if len(b) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, l)
}

// Prescription represents medications prescribed to a patient, usually
// following an appointment.
type Prescription struct {
	BaseModel
	AppointmentID string         `gorm:"size:36;index" json:"appointmentId,omitempty"`
	DoctorID      string         `gorm:"size:36;index;not null" json:"doctorId"`
	PatientID     string         `gorm:"size:36;index;not null" json:"patientId"`
	Diagnosis     string         `gorm:"size:255" json:"diagnosis"`
	Medications   MedicationList `gorm:"type:text" json:"medications"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	ValidUntil    *time.Time     `json:"validUntil,omitempty"`

	// Relations
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
