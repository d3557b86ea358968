package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/access"
	"medbook-server/internal/models"
	"medbook-server/internal/utils"
)

// PatientHandler handles patient profile requests.
type PatientHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{DB: db, Log: log}
}

// GetPatientByID fetches a patient profile. A patient sees only their
// own, a doctor sees patients with at least one appointment with them,
// an admin sees any.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}

	var patient models.Patient
	if err := h.DB.Preload("User").First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			h.Log.Error().Err(err).Msg("patient lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	treats := false
	if identity.Role == models.RoleDoctor && identity.ProfileID != "" {
		var err error
		treats, err = access.Treats(h.DB, identity.ProfileID, patient.ID)
		if err != nil {
			h.Log.Error().Err(err).Msg("treatment lookup failed")
			utils.InternalServerError(c)
			return
		}
	}

	if !access.CanViewPatient(identity, patient.ID, treats) {
		utils.Forbidden(c, "You are not authorized to view this patient")
		return
	}

	utils.Success(c, "Patient fetched successfully", patient)
}

// GetDoctorPatients lists the calling doctor's patients: every patient
// with at least one appointment with them.
func (h *PatientHandler) GetDoctorPatients(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}
	if identity.Role != models.RoleDoctor || identity.ProfileID == "" {
		utils.Forbidden(c, "Only doctors can view their patient list")
		return
	}

	var patients []models.Patient
	err := h.DB.Preload("User").
		Joins("JOIN appointments ON appointments.patient_id = patients.id").
		Where("appointments.doctor_id = ?", identity.ProfileID).
		Distinct("patients.*").
		Find(&patients).Error
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to fetch doctor patients")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// UpsertPatientProfileRequest represents the request body for creating or
// updating the calling patient's own profile.
type UpsertPatientProfileRequest struct {
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Gender           string     `json:"gender"`
	BloodGroup       string     `json:"bloodGroup"`
	Allergies        []string   `json:"allergies"`
	Medications      []string   `json:"medications"`
	EmergencyContact string     `json:"emergencyContact"`
}

// UpsertOwnProfile creates or updates the profile of the calling
// patient, bound to the authenticated user id.
func (h *PatientHandler) UpsertOwnProfile(c *gin.Context) {
	var req UpsertPatientProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middlewareUserID(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var patient models.Patient
	err := h.DB.Where("user_id = ?", userID).First(&patient).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error().Err(err).Msg("patient lookup failed")
		utils.InternalServerError(c)
		return
	}

	created := errors.Is(err, gorm.ErrRecordNotFound)
	patient.UserID = userID
	patient.DateOfBirth = req.DateOfBirth
	patient.Gender = req.Gender
	patient.BloodGroup = req.BloodGroup
	patient.Allergies = models.StringList(req.Allergies)
	patient.Medications = models.StringList(req.Medications)
	patient.EmergencyContact = req.EmergencyContact

	if err := h.DB.Save(&patient).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to save patient profile")
		utils.InternalServerError(c)
		return
	}

	if created {
		utils.Created(c, "Patient profile created successfully", patient)
		return
	}
	utils.Success(c, "Patient profile updated successfully", patient)
}
