package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/models"
	"medbook-server/internal/utils"
)

// DoctorHandler handles doctor profile requests.
type DoctorHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{DB: db, Log: log}
}

// GetDoctors lists all doctor profiles. Accessible by any authenticated
// user so patients can pick a doctor to book.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.Doctor
	query := h.DB.Preload("User")
	if specialization := c.Query("specialization"); specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}
	if err := query.Find(&doctors).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to fetch doctors")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetDoctorByID fetches a single doctor profile.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.Preload("User").First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found")
		} else {
			h.Log.Error().Err(err).Msg("doctor lookup failed")
			utils.InternalServerError(c)
		}
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

// UpsertDoctorProfileRequest represents the request body for creating or
// updating the calling doctor's own profile.
type UpsertDoctorProfileRequest struct {
	Specialization  string   `json:"specialization" binding:"required"`
	Qualifications  string   `json:"qualifications"`
	ExperienceYears int      `json:"experienceYears"`
	ConsultationFee float64  `json:"consultationFee"`
	Languages       []string `json:"languages"`
	Bio             string   `json:"bio"`
}

// UpsertOwnProfile creates or updates the profile of the calling doctor.
// The profile is always bound to the authenticated user id.
func (h *DoctorHandler) UpsertOwnProfile(c *gin.Context) {
	var req UpsertDoctorProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middlewareUserID(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var doctor models.Doctor
	err := h.DB.Where("user_id = ?", userID).First(&doctor).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error().Err(err).Msg("doctor lookup failed")
		utils.InternalServerError(c)
		return
	}

	created := errors.Is(err, gorm.ErrRecordNotFound)
	doctor.UserID = userID
	doctor.Specialization = req.Specialization
	doctor.Qualifications = req.Qualifications
	doctor.ExperienceYears = req.ExperienceYears
	doctor.ConsultationFee = req.ConsultationFee
	doctor.Languages = models.StringList(req.Languages)
	doctor.Bio = req.Bio

	if err := h.DB.Save(&doctor).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to save doctor profile")
		utils.InternalServerError(c)
		return
	}

	if created {
		utils.Created(c, "Doctor profile created successfully", doctor)
		return
	}
	utils.Success(c, "Doctor profile updated successfully", doctor)
}
