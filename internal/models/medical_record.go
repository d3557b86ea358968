package models

import (
	"time"
)

// MedicalRecordType represents the type of medical record
type MedicalRecordType string

const (
	RecordTypeConsultation MedicalRecordType = "ConsultationNote"
	RecordTypeLabResult    MedicalRecordType = "LabResult"
	RecordTypeImaging      MedicalRecordType = "ImagingReport"
	RecordTypeVaccination  MedicalRecordType = "VaccinationRecord"
	RecordTypeDischarge    MedicalRecordType = "DischargeSummary"
)

// MedicalRecord represents an entry in a patient's medical history
type MedicalRecord struct {
	BaseModel
	PatientID   string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID    string            `gorm:"size:36;index;not null" json:"doctorId"`
	RecordType  MedicalRecordType `gorm:"size:50" json:"recordType"`
	RecordDate  time.Time         `json:"recordDate"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
}
