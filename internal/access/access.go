// Package access implements identity resolution and the authorization
// predicates gating appointment, prescription and patient visibility.
// The predicates are pure functions over an Identity and a resource, so
// they are testable without any HTTP machinery.
package access

import (
	"errors"

	"gorm.io/gorm"

	"medbook-server/internal/models"
)

// ErrNoProfile is returned when a doctor or patient user has no linked
// profile record.
var ErrNoProfile = errors.New("no linked profile for user")

// Identity describes an authenticated caller: the user account, its
// role, and the id of the linked doctor or patient profile. ProfileID is
// empty for admins.
type Identity struct {
	UserID    string
	Role      models.Role
	ProfileID string
}

// Resolve maps an authenticated user to its Identity, loading the
// linked profile id for doctors and patients. The profile id is always
// derived from the user id, never taken from client input.
func Resolve(db *gorm.DB, userID string, role models.Role) (Identity, error) {
	identity := Identity{UserID: userID, Role: role}

	switch role {
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := db.Select("id").Where("user_id = ?", userID).First(&doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return identity, ErrNoProfile
			}
			return identity, err
		}
		identity.ProfileID = doctor.ID
	case models.RolePatient:
		var patient models.Patient
		if err := db.Select("id").Where("user_id = ?", userID).First(&patient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return identity, ErrNoProfile
			}
			return identity, err
		}
		identity.ProfileID = patient.ID
	}

	return identity, nil
}

// IsAdmin reports whether the identity bypasses ownership checks.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// CanAccessAppointment reports whether the caller may read or mutate the
// appointment: the booked patient, the assigned doctor, or an admin.
func CanAccessAppointment(id Identity, a *models.Appointment) bool {
	if id.IsAdmin() {
		return true
	}
	switch id.Role {
	case models.RolePatient:
		return id.ProfileID != "" && id.ProfileID == a.PatientID
	case models.RoleDoctor:
		return id.ProfileID != "" && id.ProfileID == a.DoctorID
	}
	return false
}

// CanAccessPrescription reports whether the caller may see the
// prescription: the patient it was issued to, the prescribing doctor, or
// an admin.
func CanAccessPrescription(id Identity, p *models.Prescription) bool {
	if id.IsAdmin() {
		return true
	}
	switch id.Role {
	case models.RolePatient:
		return id.ProfileID != "" && id.ProfileID == p.PatientID
	case models.RoleDoctor:
		return id.ProfileID != "" && id.ProfileID == p.DoctorID
	}
	return false
}

// CanAccessMedicalRecord follows the same ownership rule as
// prescriptions.
func CanAccessMedicalRecord(id Identity, r *models.MedicalRecord) bool {
	if id.IsAdmin() {
		return true
	}
	switch id.Role {
	case models.RolePatient:
		return id.ProfileID != "" && id.ProfileID == r.PatientID
	case models.RoleDoctor:
		return id.ProfileID != "" && id.ProfileID == r.DoctorID
	}
	return false
}

// CanViewPatient reports whether the caller may see a patient profile.
// A patient sees only themselves; a doctor sees patients that have at
// least one appointment with them (treats is that precomputed fact);
// admins see everyone.
func CanViewPatient(id Identity, patientID string, treats bool) bool {
	if id.IsAdmin() {
		return true
	}
	switch id.Role {
	case models.RolePatient:
		return id.ProfileID != "" && id.ProfileID == patientID
	case models.RoleDoctor:
		return treats
	}
	return false
}

// Treats reports whether the doctor has at least one appointment with
// the patient.
func Treats(db *gorm.DB, doctorID, patientID string) (bool, error) {
	var count int64
	err := db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	return count > 0, err
}
