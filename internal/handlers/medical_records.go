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

// MedicalRecordHandler handles medical record requests.
type MedicalRecordHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(db *gorm.DB, log zerolog.Logger) *MedicalRecordHandler {
	return &MedicalRecordHandler{DB: db, Log: log}
}

// CreateMedicalRecordRequest represents the request body for creating a record.
type CreateMedicalRecordRequest struct {
	PatientID   string                   `json:"patientId" binding:"required"`
	RecordType  models.MedicalRecordType `json:"recordType" binding:"required"`
	RecordDate  *time.Time               `json:"recordDate"`
	Title       string                   `json:"title" binding:"required"`
	Description string                   `json:"description"`
}

// CreateMedicalRecord adds an entry to a patient's history, authored by
// the calling doctor.
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req CreateMedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}
	if identity.Role != models.RoleDoctor || identity.ProfileID == "" {
		utils.Forbidden(c, "Only doctors can create medical records")
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

	recordDate := time.Now()
	if req.RecordDate != nil {
		recordDate = *req.RecordDate
	}

	record := models.MedicalRecord{
		PatientID:   patient.ID,
		DoctorID:    identity.ProfileID,
		RecordType:  req.RecordType,
		RecordDate:  recordDate,
		Title:       req.Title,
		Description: req.Description,
	}

	if err := h.DB.Create(&record).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to create medical record")
		utils.InternalServerError(c)
		return
	}

	utils.Created(c, "Medical record created successfully", record)
}

// GetMedicalRecordsForPatient lists a patient's records, subject to the
// same scoping as the patient profile itself.
func (h *MedicalRecordHandler) GetMedicalRecordsForPatient(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}

	patientID := c.Param("patientId")

	treats := false
	if identity.Role == models.RoleDoctor && identity.ProfileID != "" {
		var err error
		treats, err = access.Treats(h.DB, identity.ProfileID, patientID)
		if err != nil {
			h.Log.Error().Err(err).Msg("treatment lookup failed")
			utils.InternalServerError(c)
			return
		}
	}

	if !access.CanViewPatient(identity, patientID, treats) {
		utils.Forbidden(c, "You are not authorized to view this patient's records")
		return
	}

	var records []models.MedicalRecord
	err := h.DB.Where("patient_id = ?", patientID).
		Order("record_date desc").
		Find(&records).Error
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to fetch medical records")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Medical records fetched successfully", records)
}

// GetMedicalRecordByID fetches one record, subject to scoping.
func (h *MedicalRecordHandler) GetMedicalRecordByID(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}

	var record models.MedicalRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Medical record not found")
		} else {
			h.Log.Error().Err(err).Msg("medical record lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	if !access.CanAccessMedicalRecord(identity, &record) {
		utils.Forbidden(c, "You are not authorized to view this medical record")
		return
	}

	utils.Success(c, "Medical record fetched successfully", record)
}

// UpdateMedicalRecordRequest represents the request body for updating a record.
type UpdateMedicalRecordRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateMedicalRecord lets the authoring doctor (or an admin) amend a
// record.
func (h *MedicalRecordHandler) UpdateMedicalRecord(c *gin.Context) {
	var req UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil { // partial update
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	identity, ok := resolveIdentity(c, h.DB, h.Log)
	if !ok {
		return
	}

	var record models.MedicalRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Medical record not found")
		} else {
			h.Log.Error().Err(err).Msg("medical record lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	if identity.Role == models.RolePatient || !access.CanAccessMedicalRecord(identity, &record) {
		utils.Forbidden(c, "You are not authorized to update this medical record")
		return
	}

	if req.Title != "" {
		record.Title = req.Title
	}
	if req.Description != "" {
		record.Description = req.Description
	}

	if err := h.DB.Save(&record).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to update medical record")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Medical record updated successfully", record)
}
