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

// PrescriptionHandler handles prescription requests.
type PrescriptionHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(db *gorm.DB, log zerolog.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{DB: db, Log: log}
}

// CreatePrescriptionRequest represents the request body for issuing a prescription.
type CreatePrescriptionRequest struct {
	PatientID     string              `json:"patientId" binding:"required"`
	AppointmentID string              `json:"appointmentId"`
	Diagnosis     string              `json:"diagnosis" binding:"required"`
	Medications   []models.Medication `json:"medications" binding:"required,min=1"`
	Notes         string              `json:"notes"`
	ValidUntil    *time.Time          `json:"validUntil"`
}

// CreatePrescription issues a prescription from the calling doctor to a
// patient.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var req CreatePrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}
	if identity.Role != models.RoleDoctor || identity.ProfileID == "" {
		utils.Forbidden(c, "Only doctors can issue prescriptions")
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", req.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			h.Log.Error().Err(err).Msg("patient lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	prescription := models.Prescription{
		AppointmentID: req.AppointmentID,
		DoctorID:      identity.ProfileID,
		PatientID:     patient.ID,
		Diagnosis:     req.Diagnosis,
		Medications:   models.MedicationList(req.Medications),
		Notes:         req.Notes,
		ValidUntil:    req.ValidUntil,
	}

	if err := h.DB.Create(&prescription).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to create prescription")
		utils.InternalServerError(c)
		return
	}

	utils.Created(c, "Prescription created successfully", prescription)
}

// GetPrescriptionsForUser lists prescriptions scoped to the caller:
// patients see their own, doctors the ones they issued, admins all.
func (h *PrescriptionHandler) GetPrescriptionsForUser(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}

	query := h.DB.Order("created_at desc")
	switch {
	case identity.IsAdmin():
		// no scoping
	case identity.Role == models.RoleDoctor:
		query = query.Where("doctor_id = ?", identity.ProfileID)
	default:
		query = query.Where("patient_id = ?", identity.ProfileID)
	}

	var prescriptions []models.Prescription
	if err := query.Find(&prescriptions).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to fetch prescriptions")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Prescriptions fetched successfully", prescriptions)
}

// GetPrescriptionByID fetches one prescription, subject to scoping.
func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}

	var prescription models.Prescription
	if err := h.DB.First(&prescription, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescription not found")
		} else {
			h.Log.Error().Err(err).Msg("prescription lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	if !access.CanAccessPrescription(identity, &prescription) {
		utils.Forbidden(c, "You are not authorized to view this prescription")
		return
	}

	utils.Success(c, "Prescription fetched successfully", prescription)
}

// UpdatePrescriptionRequest represents the request body for updating a prescription.
type UpdatePrescriptionRequest struct {
	Diagnosis   string              `json:"diagnosis"`
	Medications []models.Medication `json:"medications"`
	Notes       string              `json:"notes"`
	ValidUntil  *time.Time          `json:"validUntil"`
}

// UpdatePrescription lets the issuing doctor (or an admin) amend a
// prescription.
func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	var req UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil { // partial update
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}

	var prescription models.Prescription
	if err := h.DB.First(&prescription, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescription not found")
		} else {
			h.Log.Error().Err(err).Msg("prescription lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	if identity.Role == models.RolePatient || !access.CanAccessPrescription(identity, &prescription) {
		utils.Forbidden(c, "You are not authorized to update this prescription")
		return
	}

	if req.Diagnosis != "" {
		prescription.Diagnosis = req.Diagnosis
	}
	if req.Medications != nil {
		prescription.Medications = models.MedicationList(req.Medications)
	}
	if req.Notes != "" {
		prescription.Notes = req.Notes
	}
	if req.ValidUntil != nil {
		prescription.ValidUntil = req.ValidUntil
	}

	if err := h.DB.Save(&prescription).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to update prescription")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Prescription updated successfully", prescription)
}
