package models

import (
	"time"
)

// Patient represents a patient profile linked 1:1 to a User account
type Patient struct {
	BaseModel
	UserID           string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	Gender           string     `gorm:"size:20" json:"gender"`
	BloodGroup       string     `gorm:"size:10" json:"bloodGroup"`
	Allergies        StringList `gorm:"type:varchar(512)" json:"allergies"`
	Medications      StringList `gorm:"type:varchar(512)" json:"medications"`
	EmergencyContact string     `gorm:"size:100" json:"emergencyContact"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
}
