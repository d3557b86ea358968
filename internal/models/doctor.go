package models

// Doctor represents a doctor profile linked 1:1 to a User account
type Doctor struct {
	BaseModel
	UserID          string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Specialization  string     `gorm:"size:100" json:"specialization"`
	Qualifications  string     `gorm:"size:255" json:"qualifications"`
	ExperienceYears int        `json:"experienceYears"`
	ConsultationFee float64    `json:"consultationFee"`
	Languages       StringList `gorm:"type:varchar(255)" json:"languages"`
	Bio             string     `gorm:"type:text" json:"bio"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
}
