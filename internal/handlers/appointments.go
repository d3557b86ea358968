package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/access"
	"medbook-server/internal/models"
	"medbook-server/internal/scheduling"
	"medbook-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Scheduler
	Log       zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, scheduler *scheduling.Scheduler, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduler: scheduler, Log: log}
}

// GetAvailableSlots returns the bookable slots for a doctor on a date.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		utils.BadRequest(c, "doctorId and date query parameters are required")
		return
	}

	slots, err := h.Scheduler.AvailableSlots(doctorID, date)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.Success(c, "Available slots fetched successfully", gin.H{
		"doctorId": doctorID,
		"date":     date,
		"slots":    slots,
	})
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	TimeSlot        string `json:"timeSlot" binding:"required"`
	Duration        int    `json:"duration"`
	Type            string `json:"type"`
	Method          string `json:"method"`
	Reason          string `json:"reason" binding:"required"`
	Symptoms        string `json:"symptoms"`
}

// CreateAppointment books an appointment for the calling patient. The
// patient profile is always derived from the authenticated user, never
// from the request body.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middlewareUserID(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appointment, err := h.Scheduler.Book(userID, scheduling.BookRequest{
		DoctorID: req.DoctorID,
		Date:     req.AppointmentDate,
		TimeSlot: req.TimeSlot,
		Duration: req.Duration,
		Type:     req.Type,
		Method:   req.Method,
		Reason:   req.Reason,
		Symptoms: req.Symptoms,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in
// user. Patients see their own, doctors see their schedule, admins see
// everything.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	query := h.DB.Order("appointment_date asc, time_slot asc")

	switch {
	case identity.IsAdmin():
		// no scoping
	case identity.Role == models.RoleDoctor:
		query = query.Where("doctor_id = ?", identity.ProfileID)
	default:
		query = query.Where("patient_id = ?", identity.ProfileID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to fetch appointments")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the booked patient, the assigned doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	appointment, err := h.Scheduler.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if !access.CanAccessAppointment(identity, appointment) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	TimeSlot        string `json:"timeSlot" binding:"required"`
	Reason          string `json:"reason"`
}

// RescheduleAppointment moves an appointment to a new date and slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	appointment, err := h.Scheduler.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if !access.CanAccessAppointment(identity, appointment) {
		utils.Forbidden(c, "You are not authorized to reschedule this appointment")
		return
	}

	updated, err := h.Scheduler.Reschedule(appointment.ID, req.AppointmentDate, req.TimeSlot, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", updated)
}

// UpdateAppointmentStatusRequest represents the request body for status updates.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

// UpdateAppointmentStatus overwrites the appointment status.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	appointment, err := h.Scheduler.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if !access.CanAccessAppointment(identity, appointment) {
		utils.Forbidden(c, "You are not authorized to update this appointment")
		return
	}

	updated, err := h.Scheduler.SetStatus(appointment.ID, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.Success(c, "Appointment status updated successfully", updated)
}

// CancelAppointmentRequest represents the request body for cancellation.
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelAppointment cancels an appointment and frees its slot.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if !utils.BindAndValidate(c, &req) {
			return
		}
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	appointment, err := h.Scheduler.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if !access.CanAccessAppointment(identity, appointment) {
		utils.Forbidden(c, "You are not authorized to cancel this appointment")
		return
	}

	cancelled, err := h.Scheduler.Cancel(appointment.ID, req.Reason, identity.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", cancelled)
}

func (h *AppointmentHandler) identity(c *gin.Context) (access.Identity, bool) {
	return resolveIdentity(c, h.DB, h.Log)
}

// fail maps scheduler errors onto HTTP responses.
func (h *AppointmentHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrDoctorNotFound),
		errors.Is(err, scheduling.ErrPatientProfileNotFound),
		errors.Is(err, scheduling.ErrAppointmentNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, scheduling.ErrSlotTaken),
		errors.Is(err, scheduling.ErrInvalidStatus),
		errors.Is(err, scheduling.ErrInvalidDate),
		errors.Is(err, scheduling.ErrUnknownSlot):
		utils.BadRequest(c, err.Error())
	default:
		h.Log.Error().Err(err).Msg("appointment operation failed")
		utils.InternalServerError(c)
	}
}
